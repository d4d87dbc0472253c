package workspace

import (
	"context"

	"github.com/kompox/replops/domain/model"
)

type ListHistoryInput struct {
	// Limit keeps the newest Limit events when positive.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`
}

type ListHistoryOutput struct {
	Events []*model.ProvisionEvent `json:"events" yaml:"events"`
}

// ListHistory returns provisioning events, oldest first.
func (u *UseCase) ListHistory(ctx context.Context, in *ListHistoryInput) (*ListHistoryOutput, error) {
	if u.Repos.History == nil {
		return &ListHistoryOutput{Events: []*model.ProvisionEvent{}}, nil
	}
	events, err := u.Repos.History.List(ctx)
	if err != nil {
		return nil, err
	}
	if in != nil && in.Limit > 0 && len(events) > in.Limit {
		events = events[len(events)-in.Limit:]
	}
	return &ListHistoryOutput{Events: events}, nil
}
