package registry

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"hls-service/pkg/config"
	"hls-service/pkg/logger"
)

// ServiceRegistry registers the service instance into etcd under a lease.
type ServiceRegistry struct {
	client      *clientv3.Client
	serviceName string
	serviceID   string
	serviceAddr string
	ttl         int64
	leaseID     clientv3.LeaseID
	ctx         context.Context
	cancel      context.CancelFunc
	log         *logger.Logger
}

// NewServiceRegistry creates a new ServiceRegistry instance.
func NewServiceRegistry(etcdCfg config.EtcdConfig, svcCfg config.ServiceRegistryConfig, serviceAddr string, log *logger.Logger) (*ServiceRegistry, error) {
	dialTimeout := etcdCfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	client, err := clientv3.New(clientv3.Config{
		Endpoints:   etcdCfg.Endpoints,
		DialTimeout: dialTimeout,
		Username:    etcdCfg.Username,
		Password:    etcdCfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ttl := int64(svcCfg.TTL.Seconds())
	if ttl < 5 {
		ttl = 5
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ServiceRegistry{
		client:      client,
		serviceName: svcCfg.ServiceName,
		serviceID:   svcCfg.ServiceID,
		serviceAddr: serviceAddr,
		ttl:         ttl,
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
	}, nil
}

// Key is the etcd key this instance is registered under.
func (r *ServiceRegistry) Key() string {
	return ServiceKey(r.serviceName, r.serviceID)
}

// ServiceKey builds /services/{name}/{id}.
func ServiceKey(name, id string) string {
	return fmt.Sprintf("/services/%s/%s", name, id)
}

// Register registers service instance.
func (r *ServiceRegistry) Register() error {
	leaseResp, err := r.client.Grant(r.ctx, r.ttl)
	if err != nil {
		return fmt.Errorf("failed to grant lease: %w", err)
	}
	r.leaseID = leaseResp.ID

	key := r.Key()
	if _, err := r.client.Put(r.ctx, key, r.serviceAddr, clientv3.WithLease(r.leaseID)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	ch, err := r.client.KeepAlive(r.ctx, r.leaseID)
	if err != nil {
		return fmt.Errorf("failed to keep alive lease: %w", err)
	}
	go r.drainKeepAlive(ch)

	r.log.Infof("Service registered: %s -> %s", key, r.serviceAddr)
	return nil
}

func (r *ServiceRegistry) drainKeepAlive(ch <-chan *clientv3.LeaseKeepAliveResponse) {
	for {
		select {
		case <-r.ctx.Done():
			return
		case ka := <-ch:
			if ka == nil {
				r.log.Warnf("Keep alive channel closed for %s", r.Key())
				return
			}
		}
	}
}

// Deregister removes service registration.
func (r *ServiceRegistry) Deregister() error {
	r.cancel()
	if r.leaseID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := r.client.Revoke(ctx, r.leaseID); err != nil {
			r.log.Warnf("Failed to revoke lease: %v", err)
		}
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close etcd client: %w", err)
	}
	r.log.Infof("Service deregistered: %s", r.serviceID)
	return nil
}
