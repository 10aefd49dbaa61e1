// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the dashboard, the shell and
// the config package: width-aware string fitting for table cells and atomic
// file writes.
package util
