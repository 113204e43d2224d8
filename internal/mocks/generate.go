package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/season --output domain/season --outpkg seasonmock --filename source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ArchiveRepository --dir ../domain/season --output domain/season --outpkg seasonmock --filename archive_repository_mock.go
