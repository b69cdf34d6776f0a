package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/decoderd/decoderd/internal/mediacodec"
	"github.com/decoderd/decoderd/internal/service"
)

// chooseCmd picks the best decoder for a MIME type and prints its name.
var chooseCmd = &cobra.Command{
	Use:   "choose <mime-type>",
	Short: "Choose the best decoder for a MIME type",
	Long: `Choose the most preferred installed decoder for a MIME type.

Prints the decoder name on success. Exits non-zero when no installed
decoder supports the MIME type.

Example:
  decoderd choose video/avc`,
	Args: cobra.ExactArgs(1),
	RunE: runChoose,
}

// decodersCmd lists every decoder candidate for a MIME type.
var decodersCmd = &cobra.Command{
	Use:   "decoders <mime-type>",
	Short: "List decoder candidates for a MIME type",
	Long: `List every installed decoder supporting a MIME type, one line per
supported profile, in preference order.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecoders,
}

// profilesCmd lists the profiles a named decoder supports.
var profilesCmd = &cobra.Command{
	Use:   "profiles <decoder> <mime-type>",
	Short: "List the profiles a decoder supports for a MIME type",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfiles,
}

func init() {
	rootCmd.AddCommand(chooseCmd)
	rootCmd.AddCommand(decodersCmd)
	rootCmd.AddCommand(profilesCmd)
}

// newQueryService builds a SelectionService for one-shot CLI queries.
// No database is opened; selections made here are not recorded.
func newQueryService() (*service.SelectionService, error) {
	logger := slog.Default()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	reg, err := newRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	return service.NewSelectionService(newSelector(cfg, reg, logger), nil).
		WithLogger(logger), nil
}

func runChoose(cmd *cobra.Command, args []string) error {
	svc, err := newQueryService()
	if err != nil {
		return err
	}

	name, ok := svc.ChooseDecoder(context.Background(), args[0])
	if !ok {
		return fmt.Errorf("no decoder available for %s", args[0])
	}

	fmt.Println(name)
	return nil
}

func runDecoders(cmd *cobra.Command, args []string) error {
	svc, err := newQueryService()
	if err != nil {
		return err
	}

	mimeType := args[0]
	entries := svc.ListDecoders(context.Background(), mimeType)
	if len(entries) == 0 {
		return fmt.Errorf("no decoder available for %s", mimeType)
	}

	family, _ := mediacodec.ParseFamily(mimeType)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHARDWARE\tLOW-LATENCY\tPROFILE")
	for _, e := range entries {
		profile := mediacodec.ProfileName(family, e.Profile)
		if profile == "" {
			profile = fmt.Sprintf("0x%x", e.Profile)
		}
		fmt.Fprintf(w, "%s\t%t\t%t\t%s\n", e.Name, e.Hardware, e.LowLatency, profile)
	}
	return w.Flush()
}

func runProfiles(cmd *cobra.Command, args []string) error {
	svc, err := newQueryService()
	if err != nil {
		return err
	}

	name, mimeType := args[0], args[1]
	profiles, ok := svc.ListSupportedProfiles(context.Background(), name, mimeType)
	if !ok {
		return fmt.Errorf("no profiles for decoder %s and %s", name, mimeType)
	}

	family, _ := mediacodec.ParseFamily(mimeType)
	for _, p := range profiles {
		if n := mediacodec.ProfileName(family, p); n != "" {
			fmt.Printf("0x%x\t%s\n", p, n)
		} else {
			fmt.Printf("0x%x\n", p)
		}
	}
	return nil
}
