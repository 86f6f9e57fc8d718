package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "Player roster commands",
	}

	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersCountCmd())
	cmd.AddCommand(newPlayersGetCmd())
	cmd.AddCommand(newPlayersCreateCmd())
	cmd.AddCommand(newPlayersUpdateCmd())
	cmd.AddCommand(newPlayersDeleteCmd())

	return cmd
}

// filterFlags maps CLI flags to the list/count query parameters
var filterFlags = []struct {
	flag, param, usage string
}{
	{"name", "name", "Name substring, case-insensitive"},
	{"title", "title", "Title substring, case-insensitive"},
	{"race", "race", "Race, e.g. ELF"},
	{"profession", "profession", "Profession, e.g. WARRIOR"},
	{"after", "after", "Earliest birthday (YYYY-MM-DD or epoch millis)"},
	{"before", "before", "Latest birthday (YYYY-MM-DD or epoch millis)"},
	{"banned", "banned", "Banned status: true or false"},
	{"min-experience", "minExperience", "Minimum experience"},
	{"max-experience", "maxExperience", "Maximum experience"},
	{"min-level", "minLevel", "Minimum level"},
	{"max-level", "maxLevel", "Maximum level"},
}

func addFilterFlags(flags *pflag.FlagSet) {
	for _, f := range filterFlags {
		flags.String(f.flag, "", f.usage)
	}
}

func filterParams(flags *pflag.FlagSet) (url.Values, error) {
	params := url.Values{}
	for _, f := range filterFlags {
		if !flags.Changed(f.flag) {
			continue
		}
		value, _ := flags.GetString(f.flag)
		if f.param == "after" || f.param == "before" {
			millis, err := parseDate(value)
			if err != nil {
				return nil, fmt.Errorf("--%s: %w", f.flag, err)
			}
			value = strconv.FormatInt(millis, 10)
		}
		params.Set(f.param, value)
	}
	return params, nil
}

// parseDate accepts YYYY-MM-DD (UTC midnight) or raw epoch millis
func parseDate(s string) (int64, error) {
	if millis, err := strconv.ParseInt(s, 10, 64); err == nil {
		return millis, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, fmt.Errorf("expected YYYY-MM-DD or epoch millis, got %q", s)
	}
	return t.UnixMilli(), nil
}

func playerPath(arg string) (string, error) {
	if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
		return "", fmt.Errorf("player id must be an integer, got %q", arg)
	}
	return "/rest/players/" + arg, nil
}

func newPlayersListCmd() *cobra.Command {
	var order string
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List players matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := filterParams(cmd.Flags())
			if err != nil {
				return err
			}
			if order != "" {
				params.Set("order", strings.ToUpper(order))
			}
			params.Set("pageNumber", strconv.Itoa(page))
			params.Set("pageSize", strconv.Itoa(pageSize))

			var result []Player
			if err := client.Get("/rest/players", params, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	addFilterFlags(cmd.Flags())
	cmd.Flags().StringVar(&order, "order", "", "Sort by ID, NAME, EXPERIENCE, BIRTHDAY or LEVEL")
	cmd.Flags().IntVar(&page, "page", 0, "Page number, starting at 0")
	cmd.Flags().IntVar(&pageSize, "page-size", 3, "Players per page")

	return cmd
}

func newPlayersCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count players matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := filterParams(cmd.Flags())
			if err != nil {
				return err
			}

			var result CountResult
			if err := client.Get("/rest/players/count", params, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	addFilterFlags(cmd.Flags())
	return cmd
}

func newPlayersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := playerPath(args[0])
			if err != nil {
				return err
			}

			var result Player
			if err := client.Get(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func addPlayerFieldFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "Name, 1-12 characters")
	flags.String("title", "", "Title, 1-30 characters")
	flags.String("race", "", "Race, e.g. ELF")
	flags.String("profession", "", "Profession, e.g. WARRIOR")
	flags.String("birthday", "", "Birthday (YYYY-MM-DD or epoch millis)")
	flags.Int("experience", 0, "Experience, 0-10000000")
	flags.Bool("banned", false, "Banned status")
}

// playerBody builds a request body from the field flags that were set
func playerBody(flags *pflag.FlagSet) (map[string]any, error) {
	body := map[string]any{}
	for _, name := range []string{"name", "title", "race", "profession"} {
		if flags.Changed(name) {
			value, _ := flags.GetString(name)
			if name == "race" || name == "profession" {
				value = strings.ToUpper(value)
			}
			body[name] = value
		}
	}
	if flags.Changed("birthday") {
		value, _ := flags.GetString("birthday")
		millis, err := parseDate(value)
		if err != nil {
			return nil, fmt.Errorf("--birthday: %w", err)
		}
		body["birthday"] = millis
	}
	if flags.Changed("experience") {
		body["experience"], _ = flags.GetInt("experience")
	}
	if flags.Changed("banned") {
		body["banned"], _ = flags.GetBool("banned")
	}
	return body, nil
}

func newPlayersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := playerBody(cmd.Flags())
			if err != nil {
				return err
			}

			var result Player
			if err := client.Post("/rest/players", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	addPlayerFieldFlags(cmd.Flags())
	for _, name := range []string{"name", "title", "race", "profession", "birthday", "experience"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newPlayersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := playerPath(args[0])
			if err != nil {
				return err
			}
			body, err := playerBody(cmd.Flags())
			if err != nil {
				return err
			}

			var result Player
			if err := client.Post(path, body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	addPlayerFieldFlags(cmd.Flags())
	return cmd
}

func newPlayersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := playerPath(args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(path); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage(fmt.Sprintf("Player %s deleted", args[0]))
			return nil
		},
	}
}
