// Package mocks provides mock implementations for testing the shared navigation service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockPlantRepository(ctrl)
//	mockRepo.EXPECT().List(gomock.Any()).Return(plants, nil)
package mocks

// Generate mock for PlantRepository interface from internal/core package.
// This creates MockPlantRepository with methods for all PlantRepository interface methods:
// List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=plant_repository_mock.go github.com/target/sharednav/internal/core PlantRepository

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods for all UserRepository interface methods:
// GetByObjectID, GetByEmail, Create, Update, Exists
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/target/sharednav/internal/core UserRepository
