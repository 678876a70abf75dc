//go:build !uartxdebug

package uartx

func (u *UART) dbgTx(bool)        {}
func (u *UART) dbgRx(int, int)    {}
func (u *UART) dbgWire(int)       {}
func (u *UART) dbgErrorsCleared() {}
