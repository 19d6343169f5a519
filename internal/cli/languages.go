package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdict-dev/verdict/internal/language"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages and their file extensions",
	Run: func(cmd *cobra.Command, args []string) {
		for _, lang := range language.Supported() {
			exts := language.Extensions(lang)
			fmt.Fprintf(os.Stdout, "%-12s %s\n", lang, strings.Join(exts, " "))
		}
	},
}
