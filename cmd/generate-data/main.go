// Command generate-data writes a synthesized campaign dataset as the
// four canonical CSVs, for seeding demos and local development.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/ignite/influencer-roi/internal/config"
	"github.com/ignite/influencer-roi/internal/dataset"
	"github.com/ignite/influencer-roi/internal/generator"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "path to config file")
		outDir      = flag.String("out", "", "output directory (default: data dir from config)")
		seed        = flag.Int64("seed", 0, "override generator seed")
		influencers = flag.Int("influencers", 0, "override influencer count")
	)
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	genCfg := cfg.Generator
	if *seed != 0 {
		genCfg.Seed = *seed
	}
	if *influencers != 0 {
		genCfg.NumInfluencers = *influencers
	}

	dir := cfg.Data.Dir
	if *outDir != "" {
		dir = *outDir
	}

	ds := generator.New(genCfg, time.Now()).Generate()
	if err := dataset.SaveDir(dir, ds); err != nil {
		log.Fatalf("Failed to write dataset: %v", err)
	}

	log.Printf("Wrote dataset to %s: %d influencers, %d posts, %d tracking records, %d payouts (seed %d)",
		dir, len(ds.Influencers), len(ds.Posts), len(ds.Tracking), len(ds.Payouts), genCfg.Seed)
}
