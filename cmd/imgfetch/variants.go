// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"imgfetch-cli/internal/variant"
)

var variantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "List the known image variants",
	Long: `List the known image variants.

Variants are a fixed set of short names, each mapping to one image
file inside a build archive. Fetch takes them as positional arguments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var md strings.Builder
		md.WriteString("# Image variants\n\n")
		md.WriteString("| Name | Image file | |\n")
		md.WriteString("|---|---|---|\n")
		for _, v := range variant.All() {
			note := ""
			if v == variant.Test {
				note = "default"
			}
			fmt.Fprintf(&md, "| %s | `%s` | %s |\n", v, v.Filename(), note)
		}

		rendered, err := glamour.Render(md.String(), colorScheme())
		if err != nil {
			rendered = md.String()
		}
		fmt.Print(rendered)
		return nil
	},
}
