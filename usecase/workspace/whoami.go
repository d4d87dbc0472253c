package workspace

import (
	"context"

	"github.com/kompox/replops/domain/model"
)

// WhoAmI returns the account behind the remote credential.
func (u *UseCase) WhoAmI(ctx context.Context) (*model.RemoteUser, error) {
	if !u.remoteEnabled() {
		return nil, model.ErrRemoteDisabled
	}
	return u.Remote.CurrentUser(ctx)
}
