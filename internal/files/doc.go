// Package files provides file system helpers around the data and reports
// directories.
//
// Discovery lists the dataset files present in the data directory and reports
// which file backs each supported city. Manager writes exported reports into
// the reports directory, replacing the target only once the export succeeded.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DataDir)
//	for _, ds := range discovery.Datasets() {
//	    fmt.Println(ds.Title, ds.Available)
//	}
//
//	manager := files.NewManager(paths, logger)
//	path, err := manager.WriteFile("chicago_all_all.csv", func(w io.Writer) error {
//	    return exporter.Export(w, exporter.FormatCSV, doc)
//	})
package files
