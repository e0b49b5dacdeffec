package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/officechores/duty-api/entity"
)

type mockDutyStore struct{ mock.Mock }

func (m *mockDutyStore) List(_ context.Context, limit int) ([]entity.DutyResponse, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DutyResponse), args.Error(1)
}

func (m *mockDutyStore) MostRecentByType(_ context.Context, dutyType entity.DutyType) (*entity.DutyResponse, error) {
	args := m.Called(dutyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DutyResponse), args.Error(1)
}

func (m *mockDutyStore) SetCompleted(_ context.Context, id int, dutyType entity.DutyType, completed bool) error {
	return m.Called(id, dutyType, completed).Error(0)
}

type mockMemberStore struct{ mock.Mock }

func (m *mockMemberStore) ListActive(_ context.Context, coffeeDrinkersOnly bool) ([]entity.Member, error) {
	args := m.Called(coffeeDrinkersOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Member), args.Error(1)
}

func (m *mockMemberStore) Create(_ context.Context, p entity.NewMemberPayload) error {
	return m.Called(p).Error(0)
}

func (m *mockMemberStore) Update(_ context.Context, p entity.UpdateMemberPayload) error {
	return m.Called(p).Error(0)
}

func (m *mockMemberStore) Deactivate(_ context.Context, id int) error {
	return m.Called(id).Error(0)
}

type mockRecentDutyCache struct{ mock.Mock }

func (m *mockRecentDutyCache) Get(_ context.Context, dutyType entity.DutyType) (*entity.DutyResponse, error) {
	args := m.Called(dutyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DutyResponse), args.Error(1)
}

func (m *mockRecentDutyCache) Set(_ context.Context, dutyType entity.DutyType, duty *entity.DutyResponse) error {
	return m.Called(dutyType, duty).Error(0)
}

func (m *mockRecentDutyCache) Invalidate(_ context.Context, dutyType entity.DutyType) error {
	return m.Called(dutyType).Error(0)
}
