package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

func init() {
	patternsStatsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	patternsSearchCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	patternsExportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	patternsCmd.AddCommand(
		patternsStatsCmd,
		patternsSearchCmd,
		patternsExportCmd,
		patternsImportCmd,
	)
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Pattern memory maintenance",
	Long:  "Inspect, export and import the learned question patterns of the configured store",
}

// withStorage opens the configured store for one offline command.
func withStorage(fn func(s *storage) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStorage(cfg, utils.NewNopLogger())
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

var patternsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pattern statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withStorage(func(s *storage) error {
			stats := s.patterns.Stats(cmd.Context())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		})
	},
}

var patternsSearchCmd = &cobra.Command{
	Use:   "search <question>",
	Short: "Find the pattern a question would be answered from",
	Example: `
ai-service patterns search "What's your email?"
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withStorage(func(s *storage) error {
			out := cmd.OutOrStdout()
			hit, ok := s.patterns.Search(cmd.Context(), args[0])
			if asJSON {
				matches := []models.Pattern{}
				if ok {
					matches = append(matches, *hit)
				}
				return writeJSON(out, matches)
			}
			if !ok {
				fmt.Fprintln(out, "No match.")
				return nil
			}
			fmt.Fprintf(out, "%s\n  intent: %s\n  answer: %s\n  used:   %d\n",
				hit.QuestionPattern, hit.Intent, hit.Answer(), hit.UsageCount)
			return nil
		})
	},
}

var patternsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every pattern as a {\"patterns\": [...]} document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		return withStorage(func(s *storage) error {
			doc := struct {
				Patterns []models.Pattern `json:"patterns"`
			}{Patterns: s.patterns.ReadAll(cmd.Context())}

			if output == "" {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			defer f.Close()
			if err := writeJSON(f, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d patterns to %s\n", len(doc.Patterns), output)
			return nil
		})
	},
}

var patternsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge patterns from an exported document",
	Long: `Merge patterns from a {"patterns": [...]} document or a bare JSON array.
Each pattern goes through the same validation and sharing rules as an upload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns, err := readPatternFile(args[0])
		if err != nil {
			return err
		}
		return withStorage(func(s *storage) error {
			var saved, rejected, invalid int
			for i := range patterns {
				p := patterns[i]
				if err := utils.ValidatePattern(&p); err != nil {
					invalid++
					fmt.Fprintf(cmd.ErrOrStderr(), "skip #%d: %v\n", i, err)
					continue
				}
				ok, err := s.patterns.Save(cmd.Context(), p)
				if err != nil {
					return fmt.Errorf("save pattern #%d: %w", i, err)
				}
				if ok {
					saved++
				} else {
					rejected++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d, rejected %d (not shareable), invalid %d\n", saved, rejected, invalid)
			return nil
		})
	},
}

// readPatternFile accepts the export document or a bare array of patterns.
func readPatternFile(path string) ([]models.Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}

	raw := gjson.GetBytes(data, "patterns")
	if !raw.Exists() {
		raw = gjson.ParseBytes(data)
	}
	if !raw.IsArray() {
		return nil, fmt.Errorf("%s holds no pattern array", path)
	}

	var patterns []models.Pattern
	if err := json.Unmarshal([]byte(raw.Raw), &patterns); err != nil {
		return nil, fmt.Errorf("decode patterns: %w", err)
	}
	return patterns, nil
}

func printStats(w io.Writer, stats models.PatternStats) {
	fmt.Fprintf(w, "Total patterns: %d\n", stats.TotalPatterns)

	if len(stats.IntentBreakdown) > 0 {
		intents := make([]string, 0, len(stats.IntentBreakdown))
		for intent := range stats.IntentBreakdown {
			intents = append(intents, intent)
		}
		sort.Strings(intents)
		fmt.Fprintln(w, "\nBy intent:")
		for _, intent := range intents {
			fmt.Fprintf(w, "  %-36s %d\n", intent, stats.IntentBreakdown[intent])
		}
	}

	if len(stats.TopPatterns) > 0 {
		fmt.Fprintln(w, "\nMost used:")
		for i, p := range stats.TopPatterns {
			fmt.Fprintf(w, "  %2d. [%d] %s (%s)\n", i+1, p.UsageCount, p.QuestionPattern, p.Intent)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
