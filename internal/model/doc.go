// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the format-agnostic representation of a hardware
// program: components, their cells, guarded assignments, groups and control
// trees, exactly as the user wrote them.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Definitions: The root container aggregating every component found in
//     one or more program files.
//
//   - Component: A named definition with a port signature, cells, groups,
//     continuous assignments and one control tree. Components are pure
//     definitions; instantiating them is the job of the program package.
//
//   - Assignment: A guarded connection `guard -> dst <- src` between ports.
//
//   - Control: The structured schedule (seq, par, if, while, enable, invoke,
//     empty) that decides which groups are active on a given cycle.
//
// Why a separate model package?
//
// References in the model are still names. Nothing has been resolved or
// checked, so a loader for any surface syntax can produce it without knowing
// about primitive signatures, widths or the instance hierarchy. The program
// package is the single place where a model is validated and turned into the
// resolved, ID-based form that the simulator executes.
package model
