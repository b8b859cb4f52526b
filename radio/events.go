package radio

// Events is the capability set the radio calls into when an operation
// completes. It is owned by the caller, every slot is optional and a nil
// handler is a silent no-op.
type Events struct {
	TxDone    func()
	RxDone    func(payload []byte, rssi int16, snr int8)
	RxTimeout func()
	RxError   func()
	TxTimeout func()
	CadDone   func(activityDetected bool)
}

func (e *Events) txDone() {
	if e != nil && e.TxDone != nil {
		e.TxDone()
	}
}

func (e *Events) rxDone(payload []byte, rssi int16, snr int8) {
	if e != nil && e.RxDone != nil {
		e.RxDone(payload, rssi, snr)
	}
}

func (e *Events) rxTimeout() {
	if e != nil && e.RxTimeout != nil {
		e.RxTimeout()
	}
}

func (e *Events) rxError() {
	if e != nil && e.RxError != nil {
		e.RxError()
	}
}

func (e *Events) txTimeout() {
	if e != nil && e.TxTimeout != nil {
		e.TxTimeout()
	}
}

func (e *Events) cadDone(detected bool) {
	if e != nil && e.CadDone != nil {
		e.CadDone(detected)
	}
}
