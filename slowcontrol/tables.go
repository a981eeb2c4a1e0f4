package slowcontrol

// Table describes one detector monitoring table of the slow control
// database. Key names the hardware-addressing column that, together with
// "channel", identifies a single readout channel.
type Table struct {
	Name    string
	Key     string
	Columns []string
	Summary []string
}

// Monitored parameters of HPGe detectors.
var DiodeSnap = Table{
	Name:    "diode_snap",
	Key:     "slot",
	Columns: []string{"crate", "slot", "channel", "vmon", "imon", "status", "almask", "tstamp"},
	Summary: []string{"vmon", "imon", "status"},
}

// Configuration parameters of HPGe detectors.
var DiodeConfMon = Table{
	Name:    "diode_conf_mon",
	Key:     "slot",
	Columns: []string{"confid", "crate", "slot", "channel", "vset", "iset", "rup", "rdown", "trip", "vmax", "pwkill", "pwon", "tstamp"},
	Summary: []string{"vset", "iset", "rup", "rdown", "trip", "vmax", "pwkill", "pwon"},
}

// Static information about HPGe detectors.
var DiodeInfo = Table{
	Name:    "diode_info",
	Key:     "slot",
	Columns: []string{"crate", "slot", "channel", "group", "label", "status", "itol", "vtol", "iupd", "vupd", "tstamp"},
	Summary: []string{"group", "label"},
}

// Monitored parameters of SiPMs from the LAr instrumentation.
var SiPMSnap = Table{
	Name:    "sipm_snap",
	Key:     "board",
	Columns: []string{"board", "channel", "vmon", "imon", "status", "almask", "tstamp"},
	Summary: []string{"vmon", "imon", "status"},
}

// Configuration parameters of SiPMs from the LAr instrumentation.
var SiPMConfMon = Table{
	Name:    "sipm_conf_mon",
	Key:     "board",
	Columns: []string{"confid", "board", "channel", "vset", "iset", "tstamp"},
	Summary: []string{"vset", "iset"},
}

// Static information about SiPMs from the LAr instrumentation.
var SiPMInfo = Table{
	Name:    "sipm_info",
	Key:     "board",
	Columns: []string{"board", "channel", "group", "label", "status", "itol", "vtol", "iupd", "vupd", "tstamp"},
	Summary: []string{"group", "label"},
}

// Monitored parameters of PMTs from the muon veto.
var MuonSnap = Table{
	Name:    "muon_snap",
	Key:     "slot",
	Columns: []string{"crate", "slot", "channel", "vmon", "imon", "status", "almask", "tstamp"},
	Summary: []string{"vmon", "imon", "status"},
}

// Configuration parameters of PMTs from the muon veto.
var MuonConfMon = Table{
	Name:    "muon_conf_mon",
	Key:     "slot",
	Columns: []string{"confid", "crate", "slot", "channel", "vset", "iset", "rup", "rdown", "trip", "vmax", "pwkill", "pwon", "tstamp"},
	Summary: []string{"vset", "iset", "rup", "rdown", "trip", "vmax", "pwkill", "pwon"},
}

// Static information about PMTs from the muon veto.
var MuonInfo = Table{
	Name:    "muon_info",
	Key:     "slot",
	Columns: []string{"crate", "slot", "channel", "group", "label", "status", "itol", "vtol", "iupd", "vupd", "tstamp"},
	Summary: []string{"group", "label"},
}

// systemTables maps a detector system identifier to the tables consulted
// by Status, in merge order.
var systemTables = map[string][]Table{
	"geds": {DiodeInfo, DiodeSnap, DiodeConfMon},
	"spms": {SiPMInfo, SiPMSnap, SiPMConfMon},
	"pmts": {MuonInfo, MuonSnap, MuonConfMon},
}

// addressPaths maps a detector system identifier to the channel-map paths
// holding the hardware address matched against Table.Key and "channel".
var addressPaths = map[string][2]string{
	"geds": {"voltage.card.id", "voltage.channel"},
	"spms": {"electronics.card.id", "electronics.channel"},
	"pmts": {"voltage.card.id", "voltage.channel"},
}
