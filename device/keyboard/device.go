// Package keyboard adapts a keystream.KeyStream to the usb.Device interface,
// presenting it to the rest of the stack as a standard USB HID boot
// keyboard: one interrupt IN endpoint carrying 8-byte reports, one interrupt
// OUT endpoint carrying the host's LED state.
package keyboard

import (
	"sync"
	"sync/atomic"

	"github.com/keyglitch/keyglitch/internal/hiddesc"
	"github.com/keyglitch/keyglitch/internal/keystream"
	"github.com/keyglitch/keyglitch/usb"
)

const (
	dirIn  = 1
	dirOut = 0
)

// Keyboard implements usb.Device over a keystream.KeyStream. The scan loop
// feeds it matrix snapshots via Scan; the USB layer drains HID reports via
// HandleTransfer on endpoint 1 IN.
type Keyboard struct {
	ks *keystream.KeyStream

	stateMu     sync.Mutex
	lastReport  []byte
	ledState    uint8
	ledCallback func(LEDState)

	tick       uint64
	descriptor usb.Descriptor
}

// Options configures device identification; the zero value uses the
// compiled-in vendor/product IDs.
type Options struct {
	IDVendor  *uint16
	IDProduct *uint16
	Keystream keystream.Options
}

// New returns a Keyboard with a fresh KeyStream underneath it.
func New(o *Options) *Keyboard {
	k := &Keyboard{
		descriptor: defaultDescriptor,
		lastReport: make([]byte, 8),
	}
	if o != nil {
		if o.IDVendor != nil {
			k.descriptor.Device.IDVendor = *o.IDVendor
		}
		if o.IDProduct != nil {
			k.descriptor.Device.IDProduct = *o.IDProduct
		}
		k.ks = keystream.New(o.Keystream)
	} else {
		k.ks = keystream.New(keystream.Options{})
	}
	return k
}

// SetLEDCallback sets a callback invoked whenever the host pushes new LED
// state through the OUT endpoint.
func (k *Keyboard) SetLEDCallback(f func(LEDState)) {
	k.ledCallback = f
}

// GetLEDState returns the most recent LED state reported by the host.
func (k *Keyboard) GetLEDState() LEDState {
	k.stateMu.Lock()
	defer k.stateMu.Unlock()
	var ls LEDState
	_ = ls.UnmarshalBinary([]byte{k.ledState})
	return ls
}

// RequestsReset reports whether the underlying stream has ever rendered a
// RequestReset command (spec.md §7).
func (k *Keyboard) RequestsReset() bool { return k.ks.RequestsReset() }

// Scan feeds one matrix snapshot plus the free-running clock into the
// transform engine, synthesizing DOWN/UP events and rendering every HID
// report that results. Reports are buffered; the USB layer picks up the
// latest one on its next interrupt IN poll.
func (k *Keyboard) Scan(ms MatrixState, clk uint32) {
	k.ks.Push(ms.Local, ms.Peer, clk)
	k.ks.Read(clk, func(report []byte) {
		k.stateMu.Lock()
		k.lastReport = append(k.lastReport[:0], report...)
		k.stateMu.Unlock()
	})
}

// HandleTransfer implements interrupt IN/OUT for Keyboard.
func (k *Keyboard) HandleTransfer(ep uint32, dir uint32, out []byte) []byte {
	if dir == dirIn {
		if ep != 1 {
			return nil
		}
		atomic.AddUint64(&k.tick, 1)
		k.stateMu.Lock()
		report := append([]byte(nil), k.lastReport...)
		k.stateMu.Unlock()
		return report
	}

	if dir == dirOut && ep == 1 && len(out) >= 1 {
		k.stateMu.Lock()
		k.ledState = out[0]
		k.stateMu.Unlock()

		if k.ledCallback != nil {
			var ls LEDState
			_ = ls.UnmarshalBinary(out[:1])
			k.ledCallback(ls)
		}
	}
	return nil
}

func (k *Keyboard) GetDescriptor() *usb.Descriptor {
	return &k.descriptor
}

// bootKeyboardReportDescriptor is the standard HID boot-protocol keyboard
// report descriptor: one modifier byte, one reserved byte, six keycode
// slots. It matches the layout hidreport.FeatureState.BuildReport produces.
var bootKeyboardReportDescriptor = hiddesc.Report{
	Items: []hiddesc.Item{
		hiddesc.UsagePage{Page: 0x01}, // Generic Desktop
		hiddesc.Usage{Usage: 0x06},    // Keyboard
		hiddesc.Collection{
			Kind: hiddesc.CollectionApplication,
			Items: []hiddesc.Item{
				// Input report: 8 modifier bits
				hiddesc.UsagePage{Page: 0x07}, // Key Codes
				hiddesc.UsageMinimum{Min: 0xE0},
				hiddesc.UsageMaximum{Max: 0xE7},
				hiddesc.LogicalMinimum{Min: 0},
				hiddesc.LogicalMaximum{Max: 1},
				hiddesc.ReportSize{Bits: 1},
				hiddesc.ReportCount{Count: 8},
				hiddesc.Input{Flags: hiddesc.MainVar},

				// Input report: reserved byte
				hiddesc.ReportCount{Count: 1},
				hiddesc.ReportSize{Bits: 8},
				hiddesc.Input{Flags: hiddesc.MainConst},

				// Output report: 5 LED bits plus 3 padding bits
				hiddesc.ReportCount{Count: 5},
				hiddesc.ReportSize{Bits: 1},
				hiddesc.UsagePage{Page: 0x08}, // LEDs
				hiddesc.UsageMinimum{Min: 0x01},
				hiddesc.UsageMaximum{Max: 0x05},
				hiddesc.Output{Flags: hiddesc.MainVar},
				hiddesc.ReportCount{Count: 1},
				hiddesc.ReportSize{Bits: 3},
				hiddesc.Output{Flags: hiddesc.MainConst},

				// Input report: six keycode slots
				hiddesc.ReportCount{Count: 6},
				hiddesc.ReportSize{Bits: 8},
				hiddesc.LogicalMinimum{Min: 0},
				hiddesc.LogicalMaximum{Max: 0x65},
				hiddesc.UsagePage{Page: 0x07}, // Key Codes
				hiddesc.UsageMinimum{Min: 0x00},
				hiddesc.UsageMaximum{Max: 0x65},
				hiddesc.Input{Flags: 0},
			},
		},
	},
}.Encode()

var defaultDescriptor = usb.Descriptor{
	Device: usb.DeviceDescriptor{
		BcdUSB:             0x0200,
		BDeviceClass:       0x00,
		BDeviceSubClass:    0x00,
		BDeviceProtocol:    0x00,
		BMaxPacketSize0:    0x40,
		IDVendor:           0x2E8A,
		IDProduct:          0x0011,
		BcdDevice:          0x0100,
		IManufacturer:      0x01,
		IProduct:           0x02,
		ISerialNumber:      0x03,
		BNumConfigurations: 0x01,
		Speed:              2,
	},
	Interfaces: []usb.InterfaceConfig{
		{
			Descriptor: usb.InterfaceDescriptor{
				BInterfaceNumber:   0x00,
				BAlternateSetting:  0x00,
				BNumEndpoints:      0x02,
				BInterfaceClass:    0x03, // HID
				BInterfaceSubClass: 0x01, // Boot
				BInterfaceProtocol: 0x01, // Keyboard
				IInterface:         0x00,
			},
			HIDDescriptor: []byte{
				0x01, 0x01, // bcdHID 1.01
				0x00,                   // country code
				0x01,                   // one subordinate descriptor
				0x22,                   // report descriptor type
				byte(len(bootKeyboardReportDescriptor)), 0x00,
			},
			HIDReport: bootKeyboardReportDescriptor,
			Endpoints: []usb.EndpointDescriptor{
				{BEndpointAddress: 0x81, BMAttributes: 0x03, WMaxPacketSize: 0x0008, BInterval: 0x01},
				{BEndpointAddress: 0x01, BMAttributes: 0x03, WMaxPacketSize: 0x0001, BInterval: 0x01},
			},
		},
	},
	Strings: map[uint8]string{
		0: "\x04\x09",
		1: "keyglitch",
		2: "keyglitch split keyboard",
		3: "0001",
	},
}
