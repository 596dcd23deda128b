package tz

import "time"

// Moscow is the Europe/Moscow location (MSK, no DST).
var Moscow *time.Location

func init() {
	var err error
	Moscow, err = time.LoadLocation("Europe/Moscow")
	if err != nil {
		panic("tz: load Europe/Moscow: " + err.Error())
	}
}
