package pipeline

import (
	"fmt"

	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/domain/providers"
	"github.com/zatekoja/Clinicalentitydiscoverydesign/backend/internal/rules"
	apperrors "github.com/zatekoja/Clinicalentitydiscoverydesign/backend/pkg/errors"
)

// Provider names accepted by New.
const (
	ProviderTarget = "target"
	ProviderHugot  = "hugot"
	ProviderRemote = "remote"
)

// Config selects and parameterizes the clinical pipeline implementation.
type Config struct {
	// Provider is one of "target", "hugot" or "remote". Empty selects the
	// built-in target matcher.
	Provider string
	// Model is the NER model id or local path, used by the hugot provider.
	Model string
	// URL is the base URL of the external NLP service, used by the remote
	// provider.
	URL string
	// Rules supplies the target phrases for the built-in matcher.
	Rules *rules.Set
}

// New builds the configured pipeline. A construction error is fatal to the
// caller: without a working pipeline the service cannot analyze anything.
func New(cfg Config) (providers.ClinicalPipeline, error) {
	switch cfg.Provider {
	case ProviderTarget, "":
		if cfg.Rules == nil {
			return nil, apperrors.NewValidationError("target pipeline requires a rule set")
		}
		return NewTargetMatcher(cfg.Rules.TargetRules)
	case ProviderHugot:
		return NewHugotPipeline(cfg.Model)
	case ProviderRemote:
		if cfg.URL == "" {
			return nil, apperrors.NewValidationError("PIPELINE_URL is required for the remote pipeline provider")
		}
		return NewRemotePipeline(cfg.URL), nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown pipeline provider: %s", cfg.Provider))
	}
}
