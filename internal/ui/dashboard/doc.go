// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dashboard is the Bubble Tea model of the RBAC dashboard: a user
// table and a role table, each with a create/edit modal, a delete
// confirmation, and help and settings overlays.
//
// The role modal binds Esc and Enter through a keyscope subscription that
// lives exactly as long as the modal is open. Call Model.Teardown when the
// program exits.
package dashboard
