package graphql

import (
	"context"

	"github.com/kompox/replops/domain"
	"github.com/kompox/replops/domain/model"
)

const createReplMutation = `mutation CreateRepl($input: CreateReplInput!) {
  createRepl(input: $input) {
    id
    title
    url
    language
    isPrivate
  }
}`

const templatesQuery = `query Templates {
  templates {
    id
    title
    description
    language
  }
}`

const currentUserQuery = `query CurrentUser {
  currentUser {
    username
    displayName
  }
}`

// CreateWorkspace creates the remote workspace. A disabled client fails with
// model.ErrRemoteDisabled before any I/O.
func (c *Client) CreateWorkspace(ctx context.Context, in domain.CreateRemoteInput) (*model.RemoteResult, error) {
	if !c.Enabled() {
		return nil, model.ErrRemoteDisabled
	}
	input := map[string]any{
		"title":     in.Title,
		"language":  in.Language,
		"isPrivate": in.IsPrivate,
	}
	if in.TemplateID != "" {
		input["templateId"] = in.TemplateID
	}
	if in.TeamID != "" {
		input["teamId"] = in.TeamID
	}
	var out struct {
		CreateRepl *model.RemoteResult `json:"createRepl"`
	}
	if err := c.Query(ctx, "CreateRepl", createReplMutation, map[string]any{"input": input}, &out); err != nil {
		return nil, err
	}
	if out.CreateRepl == nil {
		return nil, &model.RemoteError{Kind: model.ErrRemoteAPI, Op: "CreateRepl", Messages: []string{"null response"}}
	}
	return out.CreateRepl, nil
}

// ListTemplates lists the templates offered by the provider. A disabled
// client returns an empty list and no error.
func (c *Client) ListTemplates(ctx context.Context) ([]*model.TemplateDescriptor, error) {
	if !c.Enabled() {
		return []*model.TemplateDescriptor{}, nil
	}
	var out struct {
		Templates []struct {
			ID          string `json:"id"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Language    string `json:"language"`
		} `json:"templates"`
	}
	if err := c.Query(ctx, "Templates", templatesQuery, nil, &out); err != nil {
		return nil, err
	}
	items := make([]*model.TemplateDescriptor, 0, len(out.Templates))
	for _, t := range out.Templates {
		items = append(items, &model.TemplateDescriptor{
			Name:        t.Title,
			ID:          t.ID,
			Description: t.Description,
			Language:    t.Language,
			Source:      "remote",
		})
	}
	return items, nil
}

// CurrentUser returns the account the credential belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*model.RemoteUser, error) {
	if !c.Enabled() {
		return nil, model.ErrRemoteDisabled
	}
	var out struct {
		CurrentUser *model.RemoteUser `json:"currentUser"`
	}
	if err := c.Query(ctx, "CurrentUser", currentUserQuery, nil, &out); err != nil {
		return nil, err
	}
	if out.CurrentUser == nil {
		return nil, &model.RemoteError{Kind: model.ErrRemoteAPI, Op: "CurrentUser", Messages: []string{"null response"}}
	}
	return out.CurrentUser, nil
}

var _ domain.RemotePort = (*Client)(nil)
