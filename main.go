package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"reptile-pricer/config"
	"reptile-pricer/models"
	"reptile-pricer/scraper/morphmarket"
	"reptile-pricer/services"
	"reptile-pricer/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger(utils.LevelInfo).Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	morph := flag.String("morph", cfg.DefaultMorph, "morph to price, e.g. \"Banana Ball Python\"")
	quality := flag.String("quality", string(models.QualityPet), "quality tier: pet, breeder or high-end")
	cost := flag.Int64("cost", int64(cfg.DefaultCost), "your cost in whole dollars")
	interactive := flag.Bool("i", false, "prompt for morph, quality and cost")
	flag.Parse()

	var animal models.TargetAnimal
	if *interactive {
		animal, err = promptAnimal(os.Stdin, os.Stdout, cfg.DefaultMorph, int64(cfg.DefaultCost))
	} else {
		animal, err = newAnimal(*morph, *quality, *cost)
	}
	if err != nil {
		logger.Error("Invalid input: %v", err)
		os.Exit(2)
	}

	logger.Info("=== Reptile Price Optimizer starting (scrape mode: %s) ===", cfg.ScrapeMode)
	logger.Info("Scraping MorphMarket and analyzing...")

	pipeline := services.NewPipeline(morphmarket.New(cfg, logger), logger)
	result := pipeline.Suggest(context.Background(), animal)

	services.NewInsightService(logger).Print(os.Stdout, result)
	if !result.Suggestion.HasPrice() {
		os.Exit(1)
	}
}

// newAnimal validates front-end input. The pricing core tolerates unknown
// quality tags, but the front end only offers the known tiers.
func newAnimal(morph, quality string, cost int64) (models.TargetAnimal, error) {
	morph = strings.TrimSpace(morph)
	if morph == "" {
		return models.TargetAnimal{}, fmt.Errorf("morph must not be empty")
	}
	q, ok := models.ParseQuality(strings.ToLower(strings.TrimSpace(quality)))
	if !ok {
		return models.TargetAnimal{}, fmt.Errorf("unknown quality %q (want pet, breeder or high-end)", quality)
	}
	if cost < 0 {
		return models.TargetAnimal{}, fmt.Errorf("cost must not be negative, got %d", cost)
	}
	if cost > services.MaxAmount {
		return models.TargetAnimal{}, fmt.Errorf("cost must be at most %d, got %d", services.MaxAmount, cost)
	}
	return models.TargetAnimal{Morph: morph, Quality: q, Cost: cost}, nil
}

// promptAnimal asks for the three inputs, accepting an empty line as the
// default for each.
func promptAnimal(in io.Reader, out io.Writer, defaultMorph string, defaultCost int64) (models.TargetAnimal, error) {
	reader := bufio.NewReader(in)
	ask := func(label, def string) (string, error) {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		if line = strings.TrimSpace(line); line == "" {
			return def, nil
		}
		return line, nil
	}

	morph, err := ask("Enter Morph (e.g., Banana Ball Python)", defaultMorph)
	if err != nil {
		return models.TargetAnimal{}, err
	}
	quality, err := ask("Select Quality (pet, breeder, high-end)", string(models.QualityPet))
	if err != nil {
		return models.TargetAnimal{}, err
	}
	costText, err := ask("Enter Your Cost ($)", strconv.FormatInt(defaultCost, 10))
	if err != nil {
		return models.TargetAnimal{}, err
	}
	cost, err := strconv.ParseInt(strings.TrimPrefix(costText, "$"), 10, 64)
	if err != nil {
		return models.TargetAnimal{}, fmt.Errorf("cost %q is not a whole dollar amount", costText)
	}

	return newAnimal(morph, quality, cost)
}
