package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tonhe/shadow/internal/config"
	"github.com/tonhe/shadow/internal/dashboard"
)

// profileCmd groups view profile management.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved view profiles.",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := config.GetProfilesDir()
		if err != nil {
			return err
		}
		names, err := dashboard.ListProfiles(dir)
		if err != nil {
			return err
		}
		var rows [][]string
		for _, name := range names {
			p, err := dashboard.LoadNamed(dir, name)
			if err != nil {
				warnf("profile %s: %v", name, err)
				continue
			}
			rows = append(rows, []string{
				name,
				string(p.Sort),
				strconv.Itoa(p.Limit),
				strconv.Itoa(p.ChurnTop),
				strconv.Itoa(p.TrendDays),
				strconv.Itoa(len(p.Pinned)),
			})
		}
		if len(rows) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "No profiles saved. Create one with 'shadow profile new NAME'.")
			return err
		}
		return renderTable(cmd.OutOrStdout(), []string{"Name", "Sort", "Limit", "Churn Top", "Trend Days", "Pinned"}, rows)
	},
}

var profileNewCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a view profile.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("invalid profile name %q", args[0])
		}
		prof := dashboard.DefaultProfile()
		prof.Name = name
		prof.Limit, _ = cmd.Flags().GetInt("limit")
		prof.ChurnTop, _ = cmd.Flags().GetInt("churn-top")
		prof.TrendDays, _ = cmd.Flags().GetInt("trend-days")
		prof.Pinned, _ = cmd.Flags().GetIntSlice("pin")
		sortStr, _ := cmd.Flags().GetString("sort")
		key, err := dashboard.ParseSortKey(sortStr)
		if err != nil {
			return err
		}
		prof.Sort = key
		if prof.ChurnTop <= 0 || prof.TrendDays <= 0 {
			return fmt.Errorf("--churn-top and --trend-days must be positive")
		}

		if err := config.EnsureDirs(); err != nil {
			return err
		}
		dir, err := config.GetProfilesDir()
		if err != nil {
			return err
		}
		path := dashboard.ProfilePath(dir, name)
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("profile %q exists (use --force to overwrite)", name)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := dashboard.SaveProfile(prof, path); err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Profile %q saved to %s.\n", name, path)
		return err
	},
}
