// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the draft sync client runtime.
//
// It wires local storage, the remote document service adapter, the
// connection monitor, and background synchronization into a single
// process lifecycle.
package client
