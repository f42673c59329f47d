package cmd

import (
	"log/slog"

	"github.com/flowkan/flowkan/pkg/actions/assigncard"
	"github.com/flowkan/flowkan/pkg/actions/createcard"
	"github.com/flowkan/flowkan/pkg/actions/movecard"
	"github.com/flowkan/flowkan/pkg/actions/notification"
	"github.com/flowkan/flowkan/pkg/actions/updateproperty"
	"github.com/flowkan/flowkan/pkg/actions/webhook"
	"github.com/flowkan/flowkan/pkg/notifier"
	"github.com/flowkan/flowkan/pkg/registry"
)

// NewRegistry builds the action registry with all native action factories.
// Notifications go through the given notifier; pass nil for the slog stub.
func NewRegistry(logger *slog.Logger, n notifier.Notifier) *registry.Registry {
	if n == nil {
		n = notifier.NewSlogNotifier(logger)
	}

	reg := registry.NewRegistry(logger)

	reg.RegisterAction(movecard.NewActionFactory())
	reg.RegisterAction(assigncard.NewActionFactory())
	reg.RegisterAction(updateproperty.NewActionFactory())
	reg.RegisterAction(notification.NewActionFactory(n))
	reg.RegisterAction(webhook.NewActionFactory())
	reg.RegisterAction(createcard.NewActionFactory())

	return reg
}
