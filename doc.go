// Package strbridge is a handle-based string bridge for native and
// guest callers. It manages byte strings tagged with character
// encodings, hands out opaque handles instead of pointers, and exposes
// the construction, mutation, slicing, conversion and comparison
// operations a foreign runtime expects from a managed string layer.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	strbridge/           Root package with the Bridge facade
//	├── str/             Managed string values and the handle table
//	├── encoding/        Encoding registry, coderange scanning, transcoding
//	├── errors/          Structured bridge errors
//	├── guest/           wazero host module exposing the bridge to WASM guests
//	└── cmd/strbridge/   Interactive terminal front end
//
// # Quick Start
//
//	b := strbridge.New()
//	defer b.Close()
//
//	h, err := b.NewUTF8([]byte("héllo"))
//	if err != nil {
//		return err
//	}
//	n, _ := b.CharLen(h)     // 5
//	b.Cat(h, []byte(" world"))
//	out, _ := b.Bytes(h)
//
// Handles stay valid until released or the bridge is closed. All Bridge
// methods are safe for concurrent use; mutating the same handle from
// multiple goroutines requires caller-side coordination.
package strbridge
