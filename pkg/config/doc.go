// Package config is the sectioned key/value configuration of an MSV device.
//
// The configuration is one YAML document whose top-level keys are section
// names. Each section maps option keys to a scalar or a list of scalars:
//
//	device:
//	  instance: 260001
//	  name: boiler-room
//	  capacity: 8
//	  intrinsic_reporting: true
//	  tick_interval: 1s
//	default:
//	  description: Boiler mode
//	  state: [Off, Heating, Fault]
//	  alarmstate: [Fault]
//	"0":
//	  name: Boiler 1
//	  value: 1
//	notification-class-4:
//	  priority: [100, 200, 50]
//	  ack_required: [true, true, false]
//
// Sections named by an object index configure that object; see Populate.
// Written names and descriptions are stored back with SetOption and Commit.
package config
