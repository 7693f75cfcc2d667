package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Slot --dir ../domain/record --output domain/record --outpkg recordmock --filename slot_mock.go
