//go:build !windows

package server

import "syscall"

var errAddrInUsePlatform error = syscall.EADDRINUSE
