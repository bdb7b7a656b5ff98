package txctx

import "time"

func (o *MemoryOptions) SetClock(now func() time.Time) { o.now = now }
