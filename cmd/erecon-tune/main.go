// Command erecon-tune is a thin CLI driver tying together config
// loading, training, blocking-predicate learning, and settings
// persistence.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/cognicore/erecon/pkg/erecon/blocking"
	"github.com/cognicore/erecon/pkg/erecon/config"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/predicates"
	"github.com/cognicore/erecon/pkg/erecon/settings"
	"github.com/cognicore/erecon/pkg/erecon/train"
	"github.com/cognicore/erecon/pkg/erecon/trainfile"
)

func main() {
	var (
		configPath     = flag.String("config", "", "Path to model YAML config (required)")
		trainingPath   = flag.String("training", "", "Path to training-file JSON (required)")
		settingsOut    = flag.String("settings-out", "settings.bin", "Path to write the trained settings frame")
		pairYieldCap   = flag.Float64("pair-yield-cap", 0, "Override blocking.Config.PairYieldCap (0 = use config)")
		uncoveredToler = flag.Int("uncovered-tolerance", 0, "Override blocking.Config.UncoveredTolerance (0 = use config)")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("--config required")
	}
	if *trainingPath == "" {
		log.Fatal("--training required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dm, err := cfg.BuildDataModel(nil)
	if err != nil {
		log.Fatalf("build data model: %v", err)
	}

	trainingFile, err := os.Open(*trainingPath)
	if err != nil {
		log.Fatalf("open training file: %v", err)
	}
	labeled, err := trainfile.Load(trainingFile)
	trainingFile.Close()
	if err != nil {
		log.Fatalf("load training file: %v", err)
	}
	log.Printf("loaded %s labeled pairs from %s", humanize.Comma(int64(len(labeled))), *trainingPath)

	if err := train.FitDataModel(labeled, dm); err != nil {
		log.Fatalf("fit data model: %v", err)
	}
	log.Printf("trained weights: %v, bias: %.4f", dm.Weights(), dm.Bias())

	blockCfg := cfg.BlockingDefaultConfig()
	if *pairYieldCap > 0 {
		blockCfg.PairYieldCap = *pairYieldCap
	}
	if *uncoveredToler > 0 {
		blockCfg.UncoveredTolerance = *uncoveredToler
	}

	var dupes, nonDupes []model.Pair
	for _, lp := range labeled {
		if lp.Label == 1 {
			dupes = append(dupes, lp.Pair)
		} else {
			nonDupes = append(nonDupes, lp.Pair)
		}
	}

	learner := blocking.NewLearner(blockCfg, predicates.Index{})
	disjunction := learner.Learn(dm, dupes, nonDupes)
	log.Printf("learned a disjunction of %s predicate clauses covering %s duplicate pairs",
		humanize.Comma(int64(len(disjunction))), humanize.Comma(int64(len(dupes))))

	out, err := os.Create(*settingsOut)
	if err != nil {
		log.Fatalf("create settings file: %v", err)
	}
	defer out.Close()

	if err := settings.Save(out, dm, disjunction); err != nil {
		log.Fatalf("save settings: %v", err)
	}
	log.Printf("wrote settings to %s", *settingsOut)
}
