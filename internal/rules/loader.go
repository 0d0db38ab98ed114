package rules

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed defaults/context_cues.json
var defaultContextCues []byte

//go:embed defaults/lab_rules.json
var defaultLabRules []byte

//go:embed defaults/code_map.json
var defaultCodeMap []byte

//go:embed defaults/target_rules.json
var defaultTargetRules []byte

const (
	contextCuesFile = "context_cues.json"
	labRulesFile    = "lab_rules.json"
	codeMapFile     = "code_map.json"
	targetRulesFile = "target_rules.json"
)

// Load builds the rule set from dir, falling back to the embedded defaults
// for any table the directory does not provide. An empty dir loads only the
// defaults. The returned set is validated and must not be mutated afterwards.
func Load(dir string) (*Set, error) {
	set := &Set{}

	if err := loadTable(dir, contextCuesFile, defaultContextCues, &set.Cues); err != nil {
		return nil, err
	}
	if err := loadTable(dir, labRulesFile, defaultLabRules, &set.LabRules); err != nil {
		return nil, err
	}
	if err := loadTable(dir, codeMapFile, defaultCodeMap, &set.CodeMap); err != nil {
		return nil, err
	}
	if err := loadTable(dir, targetRulesFile, defaultTargetRules, &set.TargetRules); err != nil {
		return nil, err
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// DefaultTables returns the embedded default rule tables keyed by file name.
// It is used to seed a customizable rules directory.
func DefaultTables() map[string][]byte {
	return map[string][]byte{
		contextCuesFile: defaultContextCues,
		labRulesFile:    defaultLabRules,
		codeMapFile:     defaultCodeMap,
		targetRulesFile: defaultTargetRules,
	}
}

func loadTable(dir, name string, fallback []byte, out interface{}) error {
	data := fallback
	if dir != "" {
		path := filepath.Join(dir, name)
		fileData, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = fileData
		case !os.IsNotExist(err):
			return fmt.Errorf("failed to read rule table %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse rule table %s: %w", name, err)
	}
	return nil
}
