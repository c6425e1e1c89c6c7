package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	emoji "github.com/vohk/reacter/reacter/emoji"
	gomock "go.uber.org/mock/gomock"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
	isgomock struct{}
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// IsBlacklisted mocks base method.
func (m *MockStore) IsBlacklisted(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsBlacklisted", ctx, guildID, key)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// IsBlacklisted indicates an expected call of IsBlacklisted.
func (mr *MockStoreMockRecorder) IsBlacklisted(ctx, guildID, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsBlacklisted", reflect.TypeOf((*MockStore)(nil).IsBlacklisted), ctx, guildID, key)
}

// MockMigrations is a mock of Migrations interface.
type MockMigrations struct {
	ctrl     *gomock.Controller
	recorder *MockMigrationsMockRecorder
	isgomock struct{}
}

// MockMigrationsMockRecorder is the mock recorder for MockMigrations.
type MockMigrationsMockRecorder struct {
	mock *MockMigrations
}

// NewMockMigrations creates a new mock instance.
func NewMockMigrations(ctrl *gomock.Controller) *MockMigrations {
	mock := &MockMigrations{ctrl: ctrl}
	mock.recorder = &MockMigrationsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMigrations) EXPECT() *MockMigrationsMockRecorder {
	return m.recorder
}

// EnsureMigrated mocks base method.
func (m *MockMigrations) EnsureMigrated(ctx context.Context, guildID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EnsureMigrated", ctx, guildID)
	ret0, _ := ret[0].(error)
	return ret0
}

// EnsureMigrated indicates an expected call of EnsureMigrated.
func (mr *MockMigrationsMockRecorder) EnsureMigrated(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EnsureMigrated", reflect.TypeOf((*MockMigrations)(nil).EnsureMigrated), ctx, guildID)
}
