package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/rustyeddy/papersim/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write, check or print simulation settings",
	Long: `Work with the YAML/JSON file that describes a simulation: starting cash,
engine tunables, the instrument catalog, correlations and bots.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the demo catalog and default tunables to a file",
	Long: `Write the built-in catalog (commodities, real estate, sovereign debt and
equities) with default engine, order book and bot settings. The format
follows the file extension: .yaml/.yml for YAML, anything else for JSON.
An existing file is left alone unless --force is given.

  papersim config init sim.yaml
  papersim config init sim.json --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Load a settings file and report what it defines",
	Long: `Load and validate a settings file. The path comes from the argument or,
when omitted, from the global --config flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Long:  `Print the settings a run would use: the --config file, or the defaults.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configValidateCmd, configShowCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "simulation.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	if !configInitForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.Default().SaveToFile(path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s; start it with: papersim run -c %s --ticks 100\n", path, path)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no settings file: pass a path or --config")
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s is valid: cash %.2f, tick every %s, journal %s\n",
		path, cfg.Account.Cash, cfg.Clock.Interval, cfg.Journal.Type)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "INSTRUMENT\tCATEGORY\tPRICE\tVOLATILITY\n")
	for _, inst := range cfg.Instruments {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\n", inst.ID, inst.Category, inst.BasePrice, inst.Volatility)
	}
	tw.Flush()

	if len(cfg.Correlations) > 0 {
		fmt.Fprintf(out, "%d correlation edge(s)\n", len(cfg.Correlations))
	}
	if len(cfg.Bots) > 0 {
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "BOT\tSTRATEGY\tINSTRUMENT\tSIZE\tACTIVE\n")
		for _, b := range cfg.Bots {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%t\n", b.Name, b.Strategy, b.Instrument, b.OrderSize, b.Active)
		}
		tw.Flush()
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
