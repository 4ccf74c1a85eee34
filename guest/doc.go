// Package guest exposes the string bridge to WebAssembly guests as a
// wazero host module. Guests import functions from "wippy:strings",
// pass buffers by (pointer, length) pairs into their own linear memory
// and receive handles or negative error codes as i64 results.
package guest
