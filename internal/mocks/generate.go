package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/team --output domain/team --outpkg teammock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/player --output domain/player --outpkg playermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/lineup --output domain/lineup --outpkg lineupmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/calendar --output domain/calendar --outpkg calendarmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/match --output domain/match --outpkg matchmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StateRepository --dir ../domain/season --output domain/season --outpkg seasonmock --filename state_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BatchWriter --dir ../domain/season --output domain/season --outpkg seasonmock --filename batch_writer_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Inbox --dir ../domain/season --output domain/season --outpkg seasonmock --filename inbox_mock.go
