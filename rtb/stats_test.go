package rtb

import "testing"

func TestPublisherMetricNaming(t *testing.T) {
	mgr := NewManager(nil)
	limiter := NewV1(Counter, Conf{TopN: 10, Limit: 10, RedZone: 0.2})
	mgr.RegisterResource("sni", Restriction, limiter)
	id := mgr.RegisterTenant("alice")

	for i := 0; i < 5; i++ {
		mgr.Inc("sni", id)
	}
	limiter.Filter()

	sink := NewMapSink()
	pub := NewPublisher("proxy.process.resource", sink)
	if err := pub.Publish(mgr, "sni"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, ok := sink.Get("proxy.process.resource.sni.alice.observed")
	if !ok || got != 5 {
		t.Errorf("proxy.process.resource.sni.alice.observed = %d, %v; want 5, true", got, ok)
	}
	if _, ok := sink.Get("proxy.process.resource.global.sni.token"); !ok {
		t.Errorf("expected a global.sni.token metric to be published")
	}

	limiter.Reserve()
	afterReserve, _ := sink.Get("proxy.process.resource.sni.alice.observed")
	if afterReserve != 5 {
		t.Errorf("Publish must be called before Reserve clears counters; got a stale read of %d", afterReserve)
	}
}

func TestPublisherUnregisteredTenantFallsBackToUnknownName(t *testing.T) {
	mgr := NewManager(nil)
	limiter := NewV1(Counter, Conf{TopN: 10, Limit: 10})
	mgr.RegisterResource("sni", Observation, limiter)
	limiter.Inc(UnknownTenantID)
	limiter.Filter()

	sink := NewMapSink()
	pub := NewPublisher("p", sink)
	if err := pub.Publish(mgr, "sni"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, ok := sink.Get("p.sni.unknown.observed"); !ok {
		t.Errorf("expected the sentinel tenant's stats under the \"unknown\" name")
	}
}

func TestPublishAll(t *testing.T) {
	mgr := NewManager(nil)
	mgr.RegisterResource("sni", Observation, NewV1(Counter, Conf{TopN: 10}))
	mgr.RegisterResource("disk_read", Observation, NewV1(Counter, Conf{TopN: 10}))

	sink := NewMapSink()
	pub := NewPublisher("p", sink)
	if err := pub.PublishAll(mgr); err != nil {
		t.Fatalf("PublishAll: %v", err)
	}
	for _, resource := range []string{"sni", "disk_read"} {
		if _, ok := sink.Get("p.global." + resource + ".token"); !ok {
			t.Errorf("expected a global.%s.token metric", resource)
		}
	}
}

func TestPublishUnknownResource(t *testing.T) {
	mgr := NewManager(nil)
	pub := NewPublisher("p", NewMapSink())
	if err := pub.Publish(mgr, "nope"); err == nil {
		t.Errorf("expected an error publishing an unregistered resource")
	}
}
