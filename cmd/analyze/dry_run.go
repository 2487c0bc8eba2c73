package main

import (
	"context"
	"errors"

	"habit-persona/internal/domain"
)

var errDryRun = errors.New("profile reads are not available in dry-run mode")

// dryRunSink descarta el perfil generado; se usa cuando no se pasa --save.
type dryRunSink struct{}

func (dryRunSink) Save(context.Context, domain.PersonalityProfile) error {
	return nil
}

func (dryRunSink) GetLatestByUserID(context.Context, string) (domain.PersonalityProfile, error) {
	return domain.PersonalityProfile{}, errDryRun
}

func (dryRunSink) FindSimilar(context.Context, string, domain.TraitScores, int) ([]domain.SimilarProfile, error) {
	return nil, errDryRun
}
