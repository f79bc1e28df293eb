package scoring

import "time"

var timeZero = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
