package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/spine/pkg/interact"
	"github.com/taigrr/spine/pkg/regions"
)

var regionsYAML bool

var regionsCmd = &cobra.Command{
	Use:   "regions [key]",
	Short: "Show the anatomical region catalog",
	Long:  "List the four spine regions, or print everything known about one of them.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRegions,
}

func init() {
	regionsCmd.Flags().BoolVar(&regionsYAML, "yaml", false, "print as YAML (the selection payload)")
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	list := regions.All()
	if len(args) == 1 {
		key, err := regions.ParseKey(args[0])
		if err != nil {
			return err
		}
		list = []regions.Region{regions.MustLookup(key)}
	}

	if regionsYAML {
		sel := make([]interact.Selection, len(list))
		for i, r := range list {
			sel[i] = interact.NewSelection(r)
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(sel); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	if len(args) == 1 {
		printRegion(out, list[0])
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tVERTEBRAE\tCOUNT")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Key, r.Name, r.Vertebrae, r.Count)
	}
	return tw.Flush()
}

func printRegion(w io.Writer, r regions.Region) {
	fmt.Fprintf(w, "%s (%s, %s)\n\n", r.Name, r.Vertebrae, r.Count)
	fmt.Fprintf(w, "%s\n\n", r.Description)
	fmt.Fprintf(w, "Function:   %s\n", r.Function)
	fmt.Fprintf(w, "Nerves:     %s\n", r.Nerves)
	fmt.Fprintf(w, "Conditions: %s\n", r.Conditions)
}
