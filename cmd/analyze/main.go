package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/adapters/pipeline"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/application/services"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/entities"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/config"
)

func main() {
	var noteText string
	var filePath string
	var provider string
	var rulesDir string

	flag.StringVar(&noteText, "text", "", "Note text to analyze")
	flag.StringVar(&filePath, "file", "", "Path to a file with the note text (default: read stdin)")
	flag.StringVar(&provider, "provider", "", "Pipeline provider: target, hugot or remote (default: PIPELINE_PROVIDER)")
	flag.StringVar(&rulesDir, "rules", "", "Rule table directory (default: RULES_DIR)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if provider == "" {
		provider = cfg.Pipeline.Provider
	}
	if rulesDir == "" {
		rulesDir = cfg.Rules.Dir
	}

	text, err := readNote(noteText, filePath)
	if err != nil {
		log.Fatalf("Failed to read note text: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		log.Fatalf("Note text is empty")
	}

	ruleSet, err := rules.Load(rulesDir)
	if err != nil {
		log.Fatalf("Failed to load rule tables: %v", err)
	}

	clinicalPipeline, err := pipeline.New(pipeline.Config{
		Provider: provider,
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

	detector := services.NewContextDetector(ruleSet.Cues)
	labExtractor, err := services.NewLabExtractor(ruleSet.LabRules, detector)
	if err != nil {
		log.Fatalf("Failed to compile lab rules: %v", err)
	}
	normalizer := services.NewEntityNormalizer(services.NewCodeMapper(ruleSet.CodeMap), detector)
	svc := services.NewAnalysisService(clinicalPipeline, normalizer, labExtractor)

	result, err := svc.Analyze(context.Background(), text)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	out, err := json.MarshalIndent(map[string][]entities.Entity{"entities": result}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal entities: %v", err)
	}
	fmt.Println(string(out))

	printSummary(result)
}

// readNote resolves the note text: -text flag, then -file, then stdin.
func readNote(noteText, filePath string) (string, error) {
	if noteText != "" {
		return noteText, nil
	}
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// printSummary writes a colored per-type count breakdown to stderr so piping
// stdout still yields clean JSON.
func printSummary(result []entities.Entity) {
	counts := make(map[entities.EntityType]int, len(result))
	negated := 0
	for _, entity := range result {
		counts[entity.Type]++
		if entity.Assertion == entities.AssertionNegated {
			negated++
		}
	}

	fmt.Fprintf(os.Stderr, "\n%d entities", len(result))
	for _, entityType := range []entities.EntityType{
		entities.EntityTypeProblem,
		entities.EntityTypeMedication,
		entities.EntityTypeSignSymptom,
		entities.EntityTypeLab,
		entities.EntityTypeOther,
	} {
		if counts[entityType] == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "  %s %d", color.GreenString(string(entityType)), counts[entityType])
	}
	if negated > 0 {
		fmt.Fprintf(os.Stderr, "  %s %d", color.RedString("negated"), negated)
	}
	fmt.Fprintln(os.Stderr)
}
