package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/adapters/pipeline"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/evaluation"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ruleSet, err := rules.Load(cfg.Rules.Dir)
	if err != nil {
		log.Fatalf("Failed to load rule tables: %v", err)
	}

	clinicalPipeline, err := pipeline.New(pipeline.Config{
		Provider: cfg.Pipeline.Provider,
		Model:    cfg.Pipeline.Model,
		URL:      cfg.Pipeline.URL,
		Rules:    ruleSet,
	})
	if err != nil {
		log.Fatalf("Failed to initialize clinical pipeline: %v", err)
	}
	if closer, ok := clinicalPipeline.(io.Closer); ok {
		defer closer.Close()
	}

	// Setup Services
	detector := services.NewContextDetector(ruleSet.Cues)
	labExtractor, err := services.NewLabExtractor(ruleSet.LabRules, detector)
	if err != nil {
		log.Fatalf("Failed to compile lab rules: %v", err)
	}
	normalizer := services.NewEntityNormalizer(services.NewCodeMapper(ruleSet.CodeMap), detector)
	analysisService := services.NewAnalysisService(clinicalPipeline, normalizer, labExtractor)

	// Load Golden Notes
	goldenPath := "config/golden_notes.json"
	if _, err := os.Stat("backend/" + goldenPath); err == nil {
		goldenPath = "backend/" + goldenPath
	}

	notes, err := evaluation.LoadGoldenNotes(goldenPath)
	if err != nil {
		log.Fatalf("Failed to load golden notes: %v", err)
	}
	if err := evaluation.ValidateGoldenNotes(notes); err != nil {
		log.Fatalf("Invalid golden notes: %v", err)
	}

	runner := evaluation.NewRunner(analysisService)
	summary, err := runner.Run(context.Background(), notes)
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	// Output results as JSON
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	printTypeTable(summary)

	guardrails := evaluation.NewGuardrails(evaluation.GuardrailConfig{})
	violations := guardrails.Violations(summary)
	if len(violations) > 0 {
		fmt.Println(color.RedString("\nGuardrail violations:"))
		for _, violation := range violations {
			fmt.Printf("  - %s\n", color.YellowString(violation))
		}
		os.Exit(1)
	}

	fmt.Println(color.GreenString("\nAll guardrails passed"))
}

func printTypeTable(summary *evaluation.EvalSummary) {
	types := make([]string, 0, len(summary.ByType))
	for entityType := range summary.ByType {
		types = append(types, entityType)
	}
	sort.Strings(types)

	fmt.Println("\nRecall by entity type:")
	for _, entityType := range types {
		ts := summary.ByType[entityType]
		fmt.Printf("  %-14s expected %3d  matched %3d  recall %s\n",
			entityType, ts.Expected, ts.Matched, colorizeRecall(ts.Recall))
	}
}

func colorizeRecall(recall float64) string {
	value := fmt.Sprintf("%.2f", recall)
	switch {
	case recall >= 0.9:
		return color.GreenString(value)
	case recall >= 0.7:
		return color.YellowString(value)
	default:
		return color.RedString(value)
	}
}
