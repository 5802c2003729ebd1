// Package hiddesc is a small composable builder for USB HID report
// descriptors. It mirrors the item-tree shape of the teacher's usb/hid
// DSL (hid.Report{Items: []hid.Item{hid.UsagePage{...}, hid.Collection{...},
// ...}}): a descriptor is a typed tree of Items rather than a hand-counted
// byte literal.
package hiddesc

// Item is one HID report descriptor short item.
type Item interface {
	encode() []byte
}

// Report is a flat sequence of items; Encode renders it to wire bytes.
type Report struct {
	Items []Item
}

func (r Report) Encode() []byte {
	var out []byte
	for _, it := range r.Items {
		out = append(out, it.encode()...)
	}
	return out
}

const (
	typeMain   = 0
	typeGlobal = 1
	typeLocal  = 2
)

// shortItem builds a 1-byte-data short item: (tag<<4)|(type<<2)|size, size=1.
func shortItem(tag, typ, data byte) []byte {
	return []byte{(tag << 4) | (typ << 2) | 0x01, data}
}

// UsagePage is a Global item selecting the usage page (Generic Desktop,
// Keyboard, LEDs, ...) for the local items that follow.
type UsagePage struct{ Page byte }

func (u UsagePage) encode() []byte { return shortItem(0x0, typeGlobal, u.Page) }

// Usage is a Local item naming a single usage on the current page.
type Usage struct{ Usage byte }

func (u Usage) encode() []byte { return shortItem(0x0, typeLocal, u.Usage) }

// UsageMinimum and UsageMaximum bound a Local usage range.
type UsageMinimum struct{ Min byte }

func (u UsageMinimum) encode() []byte { return shortItem(0x1, typeLocal, u.Min) }

type UsageMaximum struct{ Max byte }

func (u UsageMaximum) encode() []byte { return shortItem(0x2, typeLocal, u.Max) }

// LogicalMinimum and LogicalMaximum bound the values a field may carry.
type LogicalMinimum struct{ Min byte }

func (l LogicalMinimum) encode() []byte { return shortItem(0x1, typeGlobal, l.Min) }

type LogicalMaximum struct{ Max byte }

func (l LogicalMaximum) encode() []byte { return shortItem(0x2, typeGlobal, l.Max) }

// ReportSize is a Global item: bit width of each field in the Input/Output
// item that follows.
type ReportSize struct{ Bits byte }

func (r ReportSize) encode() []byte { return shortItem(0x7, typeGlobal, r.Bits) }

// ReportCount is a Global item: how many ReportSize-wide fields follow.
type ReportCount struct{ Count byte }

func (r ReportCount) encode() []byte { return shortItem(0x9, typeGlobal, r.Count) }

// Main item data flags, OR'd together for Input/Output. The zero value is
// Data, Array, Absolute.
const (
	MainConst byte = 1 << 0
	MainVar   byte = 1 << 1
	MainRel   byte = 1 << 2
)

// Input declares a host-readable field (modifier bits, keycode array).
type Input struct{ Flags byte }

func (i Input) encode() []byte { return shortItem(0x8, typeMain, i.Flags) }

// Output declares a host-writable field (LED state).
type Output struct{ Flags byte }

func (o Output) encode() []byte { return shortItem(0x9, typeMain, o.Flags) }

// CollectionKind selects the HID collection type.
type CollectionKind byte

const (
	CollectionPhysical    CollectionKind = 0x00
	CollectionApplication CollectionKind = 0x01
)

// Collection wraps a nested item tree, closing it with an End Collection
// item automatically.
type Collection struct {
	Kind  CollectionKind
	Items []Item
}

func (c Collection) encode() []byte {
	out := shortItem(0xA, typeMain, byte(c.Kind))
	for _, it := range c.Items {
		out = append(out, it.encode()...)
	}
	return append(out, 0xC0) // End Collection: tag 0xC, 0 bytes of data
}
