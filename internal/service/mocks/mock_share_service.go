package mocks

import (
	"context"

	"doclib/internal/model"
	"doclib/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) Issue(ctx context.Context, documentID int64, duration int, unit model.TimeUnit) (*service.IssuedShareLink, error) {
	args := m.Called(ctx, documentID, duration, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IssuedShareLink), args.Error(1)
}

func (m *MockShareService) Resolve(ctx context.Context, token string) (*model.DocumentView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentView), args.Error(1)
}
