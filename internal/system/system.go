package system

import (
	"runtime"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// InitResourceLimits пытается увеличить лимит открытых файлов: watch-режим
// и параллельная запись превью держат много дескрипторов.
func InitResourceLimits(log zerolog.Logger) {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Не удалось получить лимит файлов")
		return
	}

	// Попробуем поставить 2048 или максимум, разрешенный системой
	want := uint64(2048)
	if want > rLimit.Max {
		want = rLimit.Max
	}
	if rLimit.Cur >= want {
		return
	}
	rLimit.Cur = want

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Не удалось установить лимит файлов")
	} else {
		log.Debug().Uint64("limit", rLimit.Cur).Msg("Системный лимит открытых файлов увеличен")
	}
}

// DefaultWorkers returns the number of logical CPUs.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// HostStats is a memory snapshot for the performance report.
type HostStats struct {
	TotalMemory uint64
	UsedMemory  uint64
	UsedPercent float64
	HeapAlloc   uint64
}

// ReadHostStats samples system and Go heap memory usage.
func ReadHostStats() (HostStats, error) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	vm, err := mem.VirtualMemory()
	if err != nil {
		return HostStats{HeapAlloc: ms.HeapAlloc}, err
	}
	return HostStats{
		TotalMemory: vm.Total,
		UsedMemory:  vm.Used,
		UsedPercent: vm.UsedPercent,
		HeapAlloc:   ms.HeapAlloc,
	}, nil
}
