package util

import (
	"runtime"

	"github.com/golang/glog"
	"github.com/pbnjay/memory"
)

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func Max(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func Min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func LogMemory() {
	s := &runtime.MemStats{}
	runtime.ReadMemStats(s)
	glog.Info("*** Memory Info ***")
	glog.Info("System Free:\t\t", memory.FreeMemory())
	glog.Info("System Total:\t\t", memory.TotalMemory())
	glog.Info("Bytes Allocated InUse:\t", s.Alloc)
	glog.Info("Mallocs:\t\t", s.Mallocs)
	glog.Info("Frees:\t\t\t", s.Frees)
	glog.Info("Heap Allocated InUse:\t", s.HeapAlloc)
	glog.Info("Heap Objects:\t\t", s.HeapObjects)
	glog.Info("Stack Allocated InUse:\t", s.StackInuse)
	glog.Info("*** ***")
}
