package mocks

import (
	"context"

	"doclib/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockShareLinkRepository struct {
	mock.Mock
}

func (m *MockShareLinkRepository) Create(ctx context.Context, link *model.ShareLink, grant *model.AccessGrant) (*model.ShareLink, *model.AccessGrant, error) {
	args := m.Called(ctx, link, grant)
	if f, ok := args.Get(0).(func(*model.ShareLink, *model.AccessGrant) (*model.ShareLink, *model.AccessGrant, error)); ok {
		return f(link, grant)
	}
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.ShareLink), args.Get(1).(*model.AccessGrant), args.Error(2)
}

func (m *MockShareLinkRepository) FindByToken(ctx context.Context, token string) (*model.ShareLink, *model.AccessGrant, error) {
	args := m.Called(ctx, token)
	var (
		link  *model.ShareLink
		grant *model.AccessGrant
	)
	if v := args.Get(0); v != nil {
		link = v.(*model.ShareLink)
	}
	if v := args.Get(1); v != nil {
		grant = v.(*model.AccessGrant)
	}
	return link, grant, args.Error(2)
}
