package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/phobologic/codeexplain/internal/lang"
)

// newLanguagesCmd lists the supported languages.
func newLanguagesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages, their extensions and grammars",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(stdout, languagesTable(lang.NewRegistry()))
			return err
		},
	}
}

func languagesTable(registry *lang.Registry) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Language", "Extensions", "Grammar"})
	for _, l := range registry.Languages() {
		def := registry.Definition(l)
		grammar := "no"
		if def.Grammar() != nil {
			grammar = "yes"
		}
		tbl.AppendRow(table.Row{string(l), strings.Join(def.Extensions, " "), grammar})
	}
	return tbl.Render()
}
