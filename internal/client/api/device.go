package api

import (
	"context"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/ktech-edu/ktechhub/internal/client/kvstore"
	"github.com/ktech-edu/ktechhub/internal/logging"
)

// KeyDeviceID holds the generated device serial.
const KeyDeviceID = "device_id"

const unknown = "Unknown"

// hostname is a test seam for os.Hostname.
var hostname = os.Hostname

// Device describes this installation to the server.
type Device struct {
	OS     string
	Model  string
	Serial string
}

// ResolveDevice builds the device descriptor. The serial is generated once
// and kept in kv; any failure degrades the field to "Unknown".
func ResolveDevice(ctx context.Context, kv *kvstore.Store, log logging.Logger) Device {
	d := Device{OS: runtime.GOOS, Model: unknown, Serial: unknown}

	if h, err := hostname(); err == nil && h != "" {
		d.Model = h
	}

	var serial string
	err := kv.Get(ctx, KeyDeviceID, &serial)
	switch {
	case err == nil && serial != "":
		d.Serial = serial
	case err == nil || kvstore.IsAbsent(err):
		serial = uuid.NewString()
		if err := kv.Set(ctx, KeyDeviceID, serial); err != nil {
			log.Warn(ctx, "save device id failed", "error", err)
			return d
		}
		d.Serial = serial
	default:
		log.Warn(ctx, "read device id failed", "error", err)
	}
	return d
}
