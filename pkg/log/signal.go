package log

import "syscall"

// TODO(windows): there is no SIGUSR2 to swap levels with.
const defaultSwapSignal = syscall.SIGUSR2
