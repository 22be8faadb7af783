// Command archspec inspects the microarchitecture catalog and the host it
// runs on.
//
// Usage:
//
//	archspec cpu [--json]
//	archspec list
//	archspec flags --target broadwell --compiler gcc --version 9.1.0
//	archspec why-not icelake
package main

import (
	"fmt"
	"os"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gocpuspec/archspec"
)

func main() {
	root := &cobra.Command{
		Use:   "archspec",
		Short: "Inspect the CPU microarchitecture catalog and the current host",
	}

	root.AddCommand(newCPUCommand(), newListCommand(), newFlagsCommand(), newWhyNotCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCPUCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cpu",
		Short: "Print the detected host microarchitecture",
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := archspec.Host()
			if err != nil {
				return err
			}
			if !asJSON {
				fmt.Println(host.Name)
				return nil
			}
			out, err := gojson.MarshalIndent(host.Snapshot(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full node snapshot as JSON")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every known microarchitecture name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := archspec.DefaultCatalog()
			if err != nil {
				return err
			}
			for _, name := range cat.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newFlagsCommand() *cobra.Command {
	var target, compiler, version string

	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Print the compiler flags for a microarchitecture/compiler/version triple",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := archspec.DefaultCatalog()
			if err != nil {
				return err
			}
			node, ok := cat.Lookup(target)
			if !ok {
				return fmt.Errorf("unknown microarchitecture %q", target)
			}
			flags, err := node.OptimizationFlags(compiler, version)
			if err != nil {
				return err
			}
			fmt.Println(flags)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "microarchitecture name (required)")
	cmd.Flags().StringVar(&compiler, "compiler", "", "compiler name, e.g. gcc (required)")
	cmd.Flags().StringVar(&version, "version", "", "compiler version, e.g. 9.1.0 (required)")
	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("compiler")
	cmd.MarkFlagRequired("version")
	return cmd
}

func newWhyNotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "why-not TARGET",
		Short: "Explain why TARGET was not selected as the detected host microarchitecture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := archspec.DefaultCatalog()
			if err != nil {
				return err
			}
			fmt.Println(cat.WhyNot(args[0]))
			return nil
		},
	}
}
