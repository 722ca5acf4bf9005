package virsh

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// PoolTypes are the storage pool types PoolCreateAs accepts. The first one
// is the default.
var PoolTypes = []string{"dir", "fs", "netfs", "disk", "iscsi", "logical"}

// PoolInfo reports whether the storage pool exists.
func PoolInfo(ctx context.Context, p Params, name string) (bool, error) {
	_, err := p.run(ctx, "pool-info "+name)
	return outcome(err, "Pool %s doesn't exist", name)
}

// PoolDestroy forcefully stops a storage pool.
func PoolDestroy(ctx context.Context, p Params, name string) (bool, error) {
	_, err := p.run(ctx, "pool-destroy "+name)
	return outcome(err, "Failed to destroy pool %s", name)
}

// PoolCreateAs creates and starts a transient storage pool. An empty
// poolType means "dir". A missing name or an unsupported type is logged and
// reported as false without running anything.
func PoolCreateAs(ctx context.Context, p Params, name, poolType, target, extra string) (bool, error) {
	if name == "" {
		logrus.Error("Please give a pool name")
		return false, nil
	}
	if poolType == "" {
		poolType = PoolTypes[0]
	}
	if !slices.Contains(PoolTypes, poolType) {
		logrus.Errorf("Only support pool types: %v", PoolTypes)
		return false, nil
	}

	logrus.Infof("Create %s type pool %s", poolType, name)
	_, err := p.run(ctx, join(fmt.Sprintf("pool-create-as --name %s --type %s --target %s", name, poolType, target), extra))
	return outcome(err, "Failed to create pool %s", name)
}
