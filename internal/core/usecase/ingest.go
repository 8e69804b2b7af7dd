package usecase

import (
	"context"
	"fmt"

	"github.com/misakino/cm-bridge/internal/core/domain"
	"github.com/misakino/cm-bridge/internal/core/ports"
)

// IngestUseCase drives the exists / needs-metadata / ready-to-submit
// decision for one identifier. The backend stays authoritative: state is
// probed fresh on every call, which makes Ingest idempotent. A second
// call after a successful submission lands on the exists branch.
type IngestUseCase struct {
	catalog ports.CatalogClient
	baseURL string
}

func NewIngestUseCase(catalog ports.CatalogClient, baseURL string) *IngestUseCase {
	return &IngestUseCase{
		catalog: catalog,
		baseURL: baseURL,
	}
}

// Classify probes the backend and returns the tagged catalog state.
// MissingTags is only consulted when the probe reports absence.
func (uc *IngestUseCase) Classify(ctx context.Context, id domain.ExternalID) (domain.CatalogState, error) {
	info, found, err := uc.catalog.ProbeExisting(ctx, id)
	if err != nil {
		return domain.CatalogState{}, err
	}
	if found {
		return domain.CatalogState{
			Kind:       domain.StateExists,
			DocumentID: info.DocumentID,
		}, nil
	}

	tags, err := uc.catalog.MissingTags(ctx, id)
	if err != nil {
		return domain.CatalogState{}, err
	}
	if len(tags) > 0 {
		return domain.CatalogState{
			Kind:        domain.StateNeedsMetadata,
			MissingTags: tags,
		}, nil
	}
	return domain.CatalogState{Kind: domain.StateReadyToSubmit}, nil
}

// Ingest evaluates the three-way branch top to bottom and returns the
// single user-visible message for the terminal branch reached.
func (uc *IngestUseCase) Ingest(ctx context.Context, id domain.ExternalID) (string, error) {
	state, err := uc.Classify(ctx, id)
	if err != nil {
		return "", err
	}

	switch state.Kind {
	case domain.StateExists:
		return fmt.Sprintf("Already catalogued, see\n%s/show_document/%d", uc.baseURL, state.DocumentID), nil
	case domain.StateNeedsMetadata:
		return fmt.Sprintf("Tags need manual entry (%s), finish it here\n%s/comic/add?source_document_id=%d",
			joinNames(state.MissingTags), uc.baseURL, id), nil
	default:
		if err := uc.catalog.Submit(ctx, id); err != nil {
			return "", err
		}
		return fmt.Sprintf("Tags are complete, submission queued. Track progress at\n%s/show_status", uc.baseURL), nil
	}
}
