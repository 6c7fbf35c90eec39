package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdlite/pkg/config"
	"github.com/yaklabco/mdlite/pkg/parser"
)

type rulesFlags struct {
	format   string
	noGfm    bool
	pedantic bool
}

const formatJSON = "json"

// ruleInfo represents a tokenizer rule in JSON output.
type ruleInfo struct {
	Name     string `json:"name"`
	Context  string `json:"context"`
	Priority int    `json:"priority"`
	Pattern  string `json:"pattern,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the tokenizer rules",
		Long: `List the block and inline tokenizer rules in the order they are tried.

The first rule that matches at the current position wins, so rules earlier
in the list take priority. The set depends on the engine options: tables,
fences, strikethrough, bare URLs and emoji only exist with GFM on.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := config.DefaultOptions()
			if flags.noGfm {
				opts.Gfm = false
				opts.Tables = false
			}
			if flags.pedantic {
				opts.Pedantic = true
			}

			infos := append(
				describeRules(parser.NewBlockRules(opts)),
				describeRules(parser.NewInlineRules(opts))...,
			)

			if flags.format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(infos); err != nil {
					return fmt.Errorf("encoding rules: %w", err)
				}
				return nil
			}

			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportTimestamp: false,
				ReportCaller:    false,
			})
			logger.SetLevel(log.InfoLevel)
			for _, info := range infos {
				logger.Info(info.Name, "context", info.Context, "priority", info.Priority)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.noGfm, "no-gfm", false, "list the rules with GFM turned off")
	cmd.Flags().BoolVar(&flags.pedantic, "pedantic", false, "list the rules with pedantic on")

	return cmd
}

// describeRules lists the rules of rs in priority order.
func describeRules(rs *parser.RuleSet) []ruleInfo {
	rules := rs.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for i, rule := range rules {
		info := ruleInfo{Name: rule.Name(), Context: rs.Kind().String(), Priority: i + 1}
		if p, ok := rule.(interface{ Pattern() string }); ok {
			info.Pattern = p.Pattern()
		}
		infos = append(infos, info)
	}
	return infos
}
