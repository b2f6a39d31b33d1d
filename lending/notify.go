package lending

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shell"
	"github.com/AntonStoeckl/library-lending-engine/notify"
)

const (
	triggerReservationCreated = "OnReservationCreated"
	triggerCheckoutCreated    = "OnCheckoutCreated"
	triggerReturnCreated      = "OnReturnCreated"
	triggerQueueAdvanced      = "OnQueueAdvanced"
	triggerOverdueDetected    = "OnOverdueDetected"
)

// notify runs after the append has committed, so a failing trigger cannot undo the transition.
func (e *Engine) notify(ctx context.Context, name string, call func(notify.Trigger) error) {
	err := call(e.trigger)
	if err == nil {
		return
	}

	shell.RecordNotificationFailure(ctx, e.metricsCollector, name)
	shell.LogWarn(ctx, e.logger, e.contextualLogger, shell.LogMsgNotificationFailed,
		shell.LogAttrTrigger, name,
		shell.LogAttrError, err.Error(),
	)
}
