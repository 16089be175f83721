// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface and registers its own routes; the
// Manager loads the enabled ones in registration order.
//
//	mgr := loader.NewManager()
//	mgr.Register(bundles.NewFeature(svc, logg))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
