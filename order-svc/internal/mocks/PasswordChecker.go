package mocks

import "github.com/stretchr/testify/mock"

// PasswordChecker is a mock type for the PasswordChecker type
type PasswordChecker struct {
	mock.Mock
}

func (_m *PasswordChecker) Check(password string) error {
	ret := _m.Called(password)
	return ret.Error(0)
}

// NewPasswordChecker creates a new instance of PasswordChecker. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewPasswordChecker(t interface {
	mock.TestingT
	Cleanup(func())
}) *PasswordChecker {
	m := &PasswordChecker{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
