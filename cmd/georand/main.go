// Command georand generates random coordinates inside country boundaries.
//
// Usage:
//
//	georand generate Italy -n 100 > points.geojson
//	georand lookup ITA
//	georand locate 12.5 41.9
//	georand list
//	georand fetch https://example.org/countries.geojson
//
// The dataset path defaults to $GEORAND_DATASET, which may also be set in a
// .env file in the working directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/andreiashu/georand"
	"github.com/cockroachdb/errors"
	log "github.com/inconshreveable/log15"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultDataset = "./georand-data/countries.geojson"

type globalFlags struct {
	dataset  string
	logLevel string
	fuzzy    int
	holes    bool
}

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.dataset, "dataset", envOr("GEORAND_DATASET", defaultDataset),
		"path to the country boundary GeoJSON (.bz2 and .gz accepted)")
	fs.StringVar(&f.logLevel, "log-level", envOr("GEORAND_LOG_LEVEL", "warn"),
		"log level: debug, info, warn, error, crit")
	fs.IntVar(&f.fuzzy, "fuzzy", 0, "max edit distance for misspelt identifiers (0 disables, max 3)")
	fs.BoolVar(&f.holes, "holes", false, "treat inner rings as holes instead of solid polygons")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (f *globalFlags) logger() (log.Logger, error) {
	lvl, err := log.LvlFromString(f.logLevel)
	if err != nil {
		return nil, err
	}
	l := log.New("cmd", "georand")
	l.SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.LogfmtFormat())))
	return l, nil
}

func (f *globalFlags) registry() (*georand.Registry, log.Logger, error) {
	logger, err := f.logger()
	if err != nil {
		return nil, nil, err
	}
	reg, err := georand.LoadRegistry(f.dataset,
		georand.WithLogger(logger),
		georand.WithFuzzyDistance(f.fuzzy),
		georand.WithHoles(f.holes),
	)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("registry loaded", "dataset", f.dataset, "keys", reg.Len())
	return reg, logger, nil
}

func newRootCmd() *cobra.Command {
	var gf globalFlags
	root := &cobra.Command{
		Use:           "georand",
		Short:         "Random coordinates inside country boundaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	gf.register(root.PersistentFlags())
	root.AddCommand(
		newGenerateCmd(&gf),
		newLookupCmd(&gf),
		newLocateCmd(&gf),
		newListCmd(&gf),
		newFetchCmd(&gf),
	)
	return root
}

func newGenerateCmd(gf *globalFlags) *cobra.Command {
	var (
		count       int
		seed        uint64
		maxAttempts int
		geohash     int
	)
	cmd := &cobra.Command{
		Use:   "generate COUNTRY [COUNTRY...]",
		Short: "Print random points inside each country as a GeoJSON FeatureCollection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, logger, err := gf.registry()
			if err != nil {
				return err
			}
			reqs := make([]georand.Request, len(args))
			for i, c := range args {
				reqs[i] = georand.Request{Country: c, Count: count}
			}
			sopts := []georand.SamplerOption{
				georand.WithMaxAttempts(maxAttempts),
				georand.WithSamplerLogger(logger),
			}
			if geohash > 0 {
				sopts = append(sopts, georand.WithGeohash(geohash))
			}
			results, err := georand.GenerateMany(cmd.Context(), reg, reqs, georand.BatchOptions{
				Seed:           seed,
				SamplerOptions: sopts,
			})
			if err != nil {
				return err
			}
			var all []georand.PointRecord
			for _, r := range results {
				all = append(all, r...)
			}
			out, err := georand.EncodeFeatures(all)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&count, "count", "n", 1, "points per country")
	fs.Uint64Var(&seed, "seed", 0, "seed for reproducible output (0 picks a random seed)")
	fs.IntVar(&maxAttempts, "max-attempts", 0, "give up after this many draws per country (0 = unbounded)")
	fs.IntVar(&geohash, "geohash", 0, "add a geohash property of this precision (0 disables)")
	return cmd
}

func newLookupCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup IDENTIFIER",
		Short: "Resolve an identifier or UN code and print the boundary's bounding box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := gf.registry()
			if err != nil {
				return err
			}
			var (
				un    int
				shape *georand.Shape
			)
			// A bare number is taken as a UN code.
			if code, convErr := strconv.Atoi(args[0]); convErr == nil {
				un = code
				shape, err = reg.ShapeByCode(un)
			} else if un, _, err = reg.Resolve(args[0]); err == nil {
				shape, err = reg.ShapeByCode(un)
			}
			if err != nil {
				return err
			}
			b := shape.Bounds()
			fmt.Fprintf(cmd.OutOrStdout(), "un=%d kind=%s parts=%d bbox=[%v %v %v %v]\n",
				un, shape.Kind(), shape.NumParts(), b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
			return nil
		},
	}
}

func newLocateCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "locate LNG LAT",
		Short: "Print the country whose boundary contains a coordinate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lng, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.Wrap(err, "parsing longitude")
			}
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.Wrap(err, "parsing latitude")
			}
			reg, _, err := gf.registry()
			if err != nil {
				return err
			}
			c, ok := reg.Locate(lng, lat)
			if !ok {
				return errors.Newf("no country contains (%v, %v)", lng, lat)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", c.ISO3, c.Name, c.UN)
			return nil
		},
	}
}

func newListCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the countries in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := gf.registry()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range reg.Countries() {
				fmt.Fprintln(w, strings.Join([]string{
					c.FIPS, c.ISO2, c.ISO3, strconv.Itoa(c.UN), c.Name,
				}, "\t"))
			}
			return nil
		},
	}
}

func newFetchCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch URL",
		Short: "Download a boundary dataset to the --dataset path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := gf.logger()
			if err != nil {
				return err
			}
			if err := georand.FetchDataset(cmd.Context(), args[0], gf.dataset); err != nil {
				return err
			}
			logger.Info("dataset downloaded", "url", args[0], "path", gf.dataset)
			return nil
		},
	}
}

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
