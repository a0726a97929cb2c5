package server

import "syscall"

// errAddrInUsePlatform is WSAEADDRINUSE, which Winsock returns instead of EADDRINUSE.
var errAddrInUsePlatform error = syscall.Errno(10048)
