package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/state --output domain/state --outpkg statemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatsProvider --dir ../usecase --output ../usecase --inpackage --testonly
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ProfileProvider --dir ../usecase --output ../usecase --inpackage --testonly
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name TotalsSource --dir ../usecase --output ../usecase --inpackage --testonly
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Notifier --dir ../usecase --output ../usecase --inpackage --testonly
