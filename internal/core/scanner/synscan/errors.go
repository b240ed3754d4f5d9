package synscan

import "errors"

// ErrSetupFailed wraps a raw-socket or capture-open failure: the driver
// returns it on setup failure, without emitting any open-port
// notifications. A transmit failure during the scan is returned as the
// sender reported it, not wrapped in ErrSetupFailed.
var ErrSetupFailed = errors.New("synscan: scan setup failed")
