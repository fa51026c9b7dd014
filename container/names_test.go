package container

import "testing"

type OrderService struct{}
type URLResolver struct{}
type client struct{}
type T struct{}

func TestDefaultName(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"struct value", OrderService{}, "orderService"},
		{"pointer indirection stripped", &OrderService{}, "orderService"},
		{"double pointer", new(*OrderService), "orderService"},
		{"leading initialism kept", &URLResolver{}, "URLResolver"},
		{"already lower-case", &client{}, "client"},
		{"single letter", T{}, "t"},
		{"anonymous struct has no name", struct{}{}, ""},
		{"nil has no name", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultName(tt.value); got != tt.expected {
				t.Errorf("DefaultName(%T) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}
