package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Clock --dir ../domain/gameweek --output domain/gameweek --outpkg gameweekmock --filename clock_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/gameweek --output domain/gameweek --outpkg gameweekmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PricingView --dir ../domain/player --output domain/player --outpkg playermock --filename pricing_view_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RuleRepository --dir ../domain/scoring --output domain/scoring --outpkg scoringmock --filename rule_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventStore --dir ../domain/scoring --output domain/scoring --outpkg scoringmock --filename event_store_mock.go
