// FaceTrack - Criminal Face Recognition Case Management Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/facetrack

// Command facetrack is the command-line client for the FaceTrack criminal
// face recognition backend.
package main

import "os"

func main() {
	os.Exit(Execute())
}
