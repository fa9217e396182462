package ui

// Welcome is printed above the intro text when gopherlings runs without a
// subcommand.
const Welcome = `       welcome to...
                         _          _ _
   __ _  ___  _ __ | |__   ___ _ __| (_)_ __   __ _ ___
  / _` + "`" + ` |/ _ \| '_ \| '_ \ / _ \ '__| | | '_ \ / _` + "`" + ` / __|
 | (_| | (_) | |_) | | | |  __/ |  | | | | | | (_| \__ \
  \__, |\___/| .__/|_| |_|\___|_|  |_|_|_| |_|\__, |___/
  |___/      |_|                              |___/`

// Intro explains how the course works.
const Intro = `Is this your first time? Don't worry, gopherlings was made for beginners! We are
going to teach you a lot of things about Go, but before we can get
started, here's a couple of notes about how gopherlings operates:

1. The central concept behind gopherlings is that you solve exercises. These
   exercises usually have some sort of syntax error in them, which will cause
   them to fail compilation or testing. Sometimes there's a logic error instead
   of a syntax error. No matter what error, it's your job to find it and fix it!
   You'll know when you fixed it because then, the exercise will compile and
   gopherlings will be able to move on to the next exercise.
2. If you run gopherlings in watch mode (which we recommend), it'll automatically
   start with the first exercise. Don't get confused by an error message popping
   up as soon as you run gopherlings! This is part of the exercise that you're
   supposed to solve, so open the exercise file in an editor and start your
   detective work!
3. If you're stuck on an exercise, there is a helpful hint you can view by typing
   'hint' (in watch mode), or running ` + "`gopherlings hint exercise_name`" + `.
4. Once an exercise compiles, delete its "// I AM NOT DONE" line to move on.

Got all that? Great! To get started, run ` + "`gopherlings watch`" + ` in order to get the first exercise.
Make sure to have your editor open in the project directory!`

// WatchHelp lists the interactive commands available in watch mode.
const WatchHelp = `Commands available to you in watch mode:
  hint   - prints the current exercise's hint
  clear  - clears the screen
  quit   - quits watch mode
  help   - displays this help message

Watch mode automatically re-evaluates the current exercise
when you edit a file's contents.`

// WatchWelcome is printed once the initial verification pass has failed
// and the interactive shell is about to start.
const WatchWelcome = "Welcome to watch mode! You can type 'help' to get an overview of the commands you can use here."

// FinishLine is the banner printed when every exercise has passed.
const FinishLine = `+----------------------------------------------------+
|          You made it to the finish line!           |
+--------------------------  ------------------------+
                           \/
                  .-""""-.     .-""""-.
                 /  .--.  \___/  .--.  \
                |  ( () )  |   |  ( () )  |
                 \  '--'  /     \  '--'  /
                  '-.__.-'   o   '-.__.-'
                      \     ___     /
                       '-._/   \_.-'
                           '---'

  We hope you enjoyed learning about the various aspects of Go.
  If you noticed any issues, please don't hesitate to report them.`

// KeepGoing is printed when the learner leaves watch mode early.
const KeepGoing = "We hope you're enjoying learning about Go!\n" +
	"If you want to continue working on the exercises at a later point, you can simply run `gopherlings watch` again"
