package system

import (
	"errors"

	"github.com/sirupsen/logrus"
)

type MemoryReport struct {
	ProcessRSS      uint64
	SystemTotal     uint64
	SystemAvailable uint64
	UsedPercent     float64
}

func ReadMemory() (MemoryReport, error) {
	return MemoryReport{}, errors.New("memory statistics are not available in the browser")
}

func (r MemoryReport) Fields() logrus.Fields {
	return logrus.Fields{}
}
